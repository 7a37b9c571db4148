package helper

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	s := &OSSService{Prefix: "ilmhub", Now: func() time.Time { return time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC) }}
	key := s.ObjectKey("/books/")
	assert.Regexp(t, regexp.MustCompile(`^ilmhub/books/2025/03/[0-9a-f-]{36}\.webp$`), key)
	assert.NotEqual(t, key, s.ObjectKey("books"))

	bare := &OSSService{}
	assert.Regexp(t, `^\d{4}/\d{2}/[0-9a-f-]{36}\.webp$`, bare.ObjectKey(""))
}

func TestPublicURLRoundTrip(t *testing.T) {
	direct := &OSSService{Endpoint: "https://oss-ap-southeast-1.aliyuncs.com", BucketName: "ilm"}
	u := direct.PublicURL("ilmhub/books/2025/03/a.webp")
	assert.Equal(t, "https://ilm.oss-ap-southeast-1.aliyuncs.com/ilmhub/books/2025/03/a.webp", u)
	key, err := direct.KeyFromPublicURL(u)
	require.NoError(t, err)
	assert.Equal(t, "ilmhub/books/2025/03/a.webp", key)

	cdn := &OSSService{PublicBase: "https://cdn.ilmhub.test"}
	u = cdn.PublicURL("ilmhub/events/x.webp")
	assert.Equal(t, "https://cdn.ilmhub.test/ilmhub/events/x.webp", u)
	key, err = cdn.KeyFromPublicURL(u)
	require.NoError(t, err)
	assert.Equal(t, "ilmhub/events/x.webp", key)

	assert.Empty(t, cdn.PublicURL(""))
	_, err = cdn.KeyFromPublicURL("not a url")
	assert.Error(t, err)
	_, err = cdn.KeyFromPublicURL("https://example.com/")
	assert.Error(t, err)
}
