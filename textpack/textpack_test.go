package textpack_test

import (
	"testing"

	"adventune/skrivpost/textpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	data, err := textpack.Write([]textpack.Entry{
		{Path: "Content.textbundle/info.json", Contents: []byte(`{"version":2}`)},
		{Path: textpack.MainTextPath, Contents: []byte("# hello\n\n![cat](assets/cat.png)\n")},
		{Path: "Content.textbundle/assets/zebra.png", Contents: []byte("z")},
		{Path: "Content.textbundle/assets/cat.png", Contents: []byte("c")},
	})
	require.NoError(t, err)

	pack, err := textpack.Read(data)
	require.NoError(t, err)
	require.Len(t, pack.Entries, 4)

	text, err := pack.MainText()
	require.NoError(t, err)
	assert.Equal(t, "# hello\n\n![cat](assets/cat.png)\n", string(text))

	assets := pack.Assets()
	require.Len(t, assets, 2)
	assert.Equal(t, "assets/cat.png", assets[0].Path)
	assert.Equal(t, []byte("c"), assets[0].Contents)
	assert.Equal(t, "assets/zebra.png", assets[1].Path)
}

func TestMissingMainText(t *testing.T) {
	data, err := textpack.Write([]textpack.Entry{
		{Path: "Content.textbundle/assets/cat.png", Contents: []byte("c")},
	})
	require.NoError(t, err)

	pack, err := textpack.Read(data)
	require.NoError(t, err)
	_, err = pack.MainText()
	assert.ErrorIs(t, err, textpack.ErrNoMainText)
}

func TestReadInvalid(t *testing.T) {
	_, err := textpack.Read([]byte("not a zip archive"))
	assert.Error(t, err)
}
