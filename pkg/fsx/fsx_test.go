package fsx_test

import (
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", fsx.DetectContentType("Letter.PDF", nil))
	assert.Equal(t, "image/jpeg", fsx.DetectContentType("photo.jpeg", nil))
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		fsx.DetectContentType("form.docx", nil))
	assert.Equal(t, "application/octet-stream", fsx.DetectContentType("blob", nil))
	assert.Equal(t, "image/png", fsx.DetectContentType("blob", []byte("\x89PNG\r\n\x1a\n0000")))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "letter.pdf", fsx.CleanName("../../etc/letter.pdf"))
	assert.Equal(t, "form.docx", fsx.CleanName(`C:\Users\ano\form.docx`))
	assert.Equal(t, "file", fsx.CleanName(" "))
}
