package mailer

import "fmt"

// VerificationMessage 邮箱验证码邮件
func VerificationMessage(name, email, code string) *Message {
	return &Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Verify your email address",
		Text:    fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 5 minutes.\n\nIf you did not sign up, you can ignore this email.", name, code),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in 5 minutes.</p><p>If you did not sign up, you can ignore this email.</p>`,
			name, code),
	}
}

// PasswordResetMessage 重置密码验证码邮件
func PasswordResetMessage(name, email, code string) *Message {
	return &Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Reset your password",
		Text:    fmt.Sprintf("Hi %s,\n\nUse code %s to reset your password. It expires in 5 minutes.\n\nIf you did not request a reset, you can ignore this email.", name, code),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Use code <strong>%s</strong> to reset your password. It expires in 5 minutes.</p><p>If you did not request a reset, you can ignore this email.</p>`,
			name, code),
	}
}
