package api

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm(t *testing.T) {
	form, err := NewForm(map[string]string{"name": "Alice"}, "avatar", "avatar.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)

	_, params, err := mime.ParseMediaType(form.ContentType)
	require.NoError(t, err)
	require.NotEmpty(t, params["boundary"])

	reader := multipart.NewReader(form.Body, params["boundary"])

	fields := map[string]string{}
	var fileName, fileContent string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			fileName = part.FileName()
			fileContent = string(data)
		} else {
			fields[part.FormName()] = string(data)
		}
	}

	assert.Equal(t, map[string]string{"name": "Alice"}, fields)
	assert.Equal(t, "avatar.png", fileName)
	assert.Equal(t, "PNGDATA", fileContent)
}

func TestNewForm_NoFile(t *testing.T) {
	form, err := NewForm(map[string]string{"name": "Bob"}, "avatar", "", nil)
	require.NoError(t, err)

	_, params, err := mime.ParseMediaType(form.ContentType)
	require.NoError(t, err)

	reader := multipart.NewReader(form.Body, params["boundary"])
	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "name", part.FormName())
	assert.Empty(t, part.FileName())

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err)
}
