package validation

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("proof", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["proof"][0]
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	assert.NoError(t, ValidateFile(fileHeader(t, "steps.png", tinyPNG(t)), ProofConstraints))
	assert.NoError(t, ValidateFile(fileHeader(t, "STEPS.PNG", tinyPNG(t)), ProofConstraints))

	err := ValidateFile(fileHeader(t, "steps.png", []byte("plain text")), ProofConstraints)
	assert.ErrorIs(t, err, ErrFileType)
	assert.Contains(t, err.Error(), "text/plain")

	err = ValidateFile(fileHeader(t, "steps.gif", tinyPNG(t)), ProofConstraints)
	assert.ErrorIs(t, err, ErrFileExtension)

	small := FileConstraints{MimeTypes: ProofConstraints.MimeTypes, Extensions: ProofConstraints.Extensions, MaxSize: 10}
	err = ValidateFile(fileHeader(t, "steps.png", tinyPNG(t)), small)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
