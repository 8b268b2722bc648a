package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("  hello world \n"))
	var w bytes.Buffer

	got, err := GetSimpleText(r, "Say:", &w)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Say:\n> ", w.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("partial")), "p", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "p", io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var w bytes.Buffer
	pw, err := GetPassword(&w)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))
	assert.Contains(t, w.String(), "Enter password: ")
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err := GetPassword(io.Discard)
	assert.EqualError(t, err, "no tty")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "x", "0", "-3"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
