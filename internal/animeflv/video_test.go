package animeflv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const episodePage = `
<!DOCTYPE html>
<html>
<body>
  <h1 class="Title">Naruto Episodio 1</h1>
  <script>
    var videos = {"SUB":[{"server":"sw","title":"SW","code":"<iframe class=\"embed\" src=\"https://streamwish.example/e/abc123\" frameborder=\"0\"></iframe>"},{"server":"yourupload","title":"YourUpload","code":"https://www.yourupload.example/embed/xyz"}],"LAT":[{"server":"sw","code":"https://streamwish.example/e/lat999"}]};
  </script>
</body>
</html>`

func TestParseVideoServersUnwrapsIframeAndKeepsSubTrack(t *testing.T) {
	servers, err := ParseVideoServers(episodePage)
	require.NoError(t, err)
	require.Len(t, servers, 2)

	assert.Equal(t, "sw", servers[0].Name)
	assert.Equal(t, "https://streamwish.example/e/abc123", servers[0].URL)

	assert.Equal(t, "yourupload", servers[1].Name)
	assert.Equal(t, "https://www.yourupload.example/embed/xyz", servers[1].URL)
}

func TestParseVideoServersMissingBlockFails(t *testing.T) {
	page := `<!DOCTYPE html><html><body><h1 class="Title">Naruto Episodio 1</h1></body></html>`
	servers, err := ParseVideoServers(page)
	assert.Nil(t, servers)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseVideoServersEmptySubTrackFails(t *testing.T) {
	page := `<!DOCTYPE html><html><body>
		<script>var videos = {"SUB":[],"LAT":[{"server":"sw","code":"https://x.example/e/1"}]};</script>
	</body></html>`
	servers, err := ParseVideoServers(page)
	assert.Nil(t, servers)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseVideoServersMalformedBlockFails(t *testing.T) {
	page := `<!DOCTYPE html><html><body>
		<script>var videos = {"SUB":};</script>
	</body></html>`
	_, err := ParseVideoServers(page)
	require.Error(t, err)
}

func TestCleanVideoURL(t *testing.T) {
	assert.Equal(t, "https://x.example/e/1", cleanVideoURL(`<iframe src="https://x.example/e/1"></iframe>`))
	assert.Equal(t, "https://x.example/e/1", cleanVideoURL("https://x.example/e/1"))
	assert.Equal(t, "<iframe>broken", cleanVideoURL("<iframe>broken"))
}
