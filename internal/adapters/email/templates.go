package email

import (
	"fmt"
	"html"
)

// The links embed the token plaintext exactly once; these bodies are the
// only place it leaves the process.

func verificationEmail(name, link string) (subject, body string) {
	name = html.EscapeString(name)
	subject = "Verify your email address"
	body = fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome aboard! Please confirm your email address by clicking the link below.
The link is valid for a limited time and can be used once.</p>
<p><a href="%s">Verify email</a></p>
<p>If the button does not work, copy this address into your browser:<br>%s</p>
<p>If you did not create this account, you can ignore this message.</p>`, name, link, link)
	return subject, body
}

func passwordResetEmail(name, link string) (subject, body string) {
	name = html.EscapeString(name)
	subject = "Reset your password"
	body = fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset the password for your account. Click the
link below to choose a new one. The link is valid for a limited time and can
be used once.</p>
<p><a href="%s">Reset password</a></p>
<p>If the button does not work, copy this address into your browser:<br>%s</p>
<p>If you did not request a reset, your password is unchanged and you can
ignore this message.</p>`, name, link, link)
	return subject, body
}
