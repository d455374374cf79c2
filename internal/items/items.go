package items

import "strings"

// Item types recognized by the thumbnail hooks. Only file-backed items
// qualify for automatic generation; apps get their icons from templates.
const (
	TypeLocalFile = "file"
	TypeS3File    = "s3File"
	TypeApp       = "app"
)

// FileExtra describes the file backing an item: its declared mimetype
// and the path of the original bytes in the file-storage service.
type FileExtra struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Mimetype string `json:"mimetype"`
}

// AppExtra describes an app item.
type AppExtra struct {
	URL      string         `json:"url"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Extra is the item's type-dependent payload. At most one field is set,
// matching the item's declared type.
type Extra struct {
	File   *FileExtra `json:"file,omitempty"`
	S3File *FileExtra `json:"s3File,omitempty"`
	App    *AppExtra  `json:"app,omitempty"`
}

// Item is the host-owned structure this subsystem reads but never
// mutates.
type Item struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Extra Extra  `json:"extra"`
}

// FileExtra returns the file payload matching the item's type, or nil
// for items that are not file-backed.
func (i Item) FileExtra() *FileExtra {
	switch i.Type {
	case TypeLocalFile:
		return i.Extra.File
	case TypeS3File:
		return i.Extra.S3File
	}
	return nil
}

// IsEligible reports whether the item should trigger automatic thumbnail
// generation: it must be file-backed and declare an image mimetype.
func IsEligible(i Item) bool {
	file := i.FileExtra()
	return file != nil && strings.HasPrefix(file.Mimetype, "image/")
}
