package qr

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// 深链目标页面
const (
	TargetVoucher = "voucher"
	TargetPromo   = "komunitas/promo/detail_promo"
)

// Generator 生成券/促销深链二维码
type Generator struct {
	frontendBase string
	pngSize      int
}

func NewGenerator(frontendBase string) *Generator {
	return &Generator{
		frontendBase: strings.TrimRight(frontendBase, "/"),
		pngSize:      512,
	}
}

// BuildDeepLink 构造扫码落地 URL
// 额外带 autoRegister=1 和 source=qr_scan，前端据此走扫码注册流程
func (g *Generator) BuildDeepLink(target string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("autoRegister", "1")
	q.Set("source", "qr_scan")
	return fmt.Sprintf("%s/app/%s?%s", g.frontendBase, target, q.Encode())
}

// EncodePNG 将 URL 渲染为 PNG 字节
func (g *Generator) EncodePNG(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, g.pngSize)
}

// ObjectKey 二维码文件的存储路径
func ObjectKey(adminID string) string {
	return fmt.Sprintf("qr_codes/admin_%s_%d.png", adminID, time.Now().Unix())
}
