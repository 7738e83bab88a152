package mailer

import (
	"fmt"
	"html"
)

// RegistrationEmail builds the verification email sent after registration.
// The URL embeds the new user's identifier as the verification code.
func RegistrationEmail(name, verifyURL string) Message {
	body := fmt.Sprintf(`<p>Dear %s</p>
<p>Thank you for registering with Binkeyit.</p>
<a href=%q style="color: black; background: orange; margin-top: 10px; padding: 20px; display: block">
    Verify Email
</a>`, html.EscapeString(name), verifyURL)

	return Message{
		Subject: "Binkeyit email verification",
		HTML:    body,
	}
}

// ForgotPasswordEmail builds the OTP email for a password reset.
func ForgotPasswordEmail(name, otp string) Message {
	body := fmt.Sprintf(`<div>
    <p>Dear %s,</p>
    <p>You've requested a password reset.</p>
    <div style="background:yellow; font-size:20px;padding:20px;text-align:center;font-weight:800;">
        %s
    </div>
    <p>This OTP is valid for 10 minutes only. Please use the OTP above to reset your password.</p>
    <br/>
    <p>Thanks</p>
    <p>Binkeyit</p>
</div>`, html.EscapeString(name), html.EscapeString(otp))

	return Message{
		Subject: "Password reset OTP from Binkeyit",
		HTML:    body,
	}
}
