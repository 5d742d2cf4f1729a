package relay

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/visage/pkg/dify"
)

// Payload is the uploaded image. It lives in memory for one request only.
type Payload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Size returns the payload length in bytes.
func (p Payload) Size() int64 {
	return int64(len(p.Data))
}

func (p Payload) upload() dify.Upload {
	return dify.Upload{
		Data:        p.Data,
		Filename:    p.Filename,
		ContentType: p.ContentType,
	}
}

// detectContentType prefers the declared part type, then the filename
// extension, then content sniffing.
func detectContentType(declared, filename string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return mimetype.Detect(data).String()
}
