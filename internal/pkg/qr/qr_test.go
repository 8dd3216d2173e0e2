package qr

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeepLink(t *testing.T) {
	g := NewGenerator("https://app.example.com/")

	t.Run("voucher link carries scan markers", func(t *testing.T) {
		link := g.BuildDeepLink(TargetVoucher, map[string]string{"id": "ad-1"})

		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link, "https://app.example.com/app/voucher?"))
		assert.Equal(t, "ad-1", u.Query().Get("id"))
		assert.Equal(t, "1", u.Query().Get("autoRegister"))
		assert.Equal(t, "qr_scan", u.Query().Get("source"))
	})

	t.Run("promo link targets community promo detail", func(t *testing.T) {
		link := g.BuildDeepLink(TargetPromo, map[string]string{"id": "ad-2"})
		assert.Contains(t, link, "/app/komunitas/promo/detail_promo?")
	})

	t.Run("trailing slash in base trimmed once", func(t *testing.T) {
		link := g.BuildDeepLink(TargetVoucher, nil)
		assert.NotContains(t, link, "com//app")
	})
}

func TestEncodePNG(t *testing.T) {
	g := NewGenerator("https://app.example.com")
	png, err := g.EncodePNG(g.BuildDeepLink(TargetVoucher, map[string]string{"id": "ad-1"}))

	require.NoError(t, err)
	// PNG 魔数
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("admin-1")
	assert.True(t, strings.HasPrefix(key, "qr_codes/admin_admin-1_"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}
