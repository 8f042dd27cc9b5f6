package twofactor

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/pquerna/otp/totp"
)

// Service TOTP 双因素认证，与 Google Authenticator 等标准应用兼容
// 默认参数：30秒周期、6位数字、SHA1
type Service struct {
	issuer string
}

func NewService(issuer string) *Service {
	return &Service{issuer: issuer}
}

// GenerateSecret 为用户生成新的 TOTP 密钥（base32）
func (s *Service) GenerateSecret(username string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: username,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// GenerateQRCode 把密钥编码为二维码，返回 data URL 供前端展示
func (s *Service) GenerateQRCode(username, secret string) (string, error) {
	secretBytes, err := base32.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: username,
		Secret:      secretBytes,
	})
	if err != nil {
		return "", err
	}

	code, err := qr.Encode(key.URL(), qr.M, qr.Auto)
	if err != nil {
		return "", err
	}
	code, err = barcode.Scale(code, 200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ValidateCode 校验一次性验证码
func (s *Service) ValidateCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
