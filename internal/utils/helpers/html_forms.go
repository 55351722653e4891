package helpers

import (
	"fmt"
	"html"
	"time"
)

const layout = `
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>%s</td>
            </tr>
            <tr>
              <td dir="rtl" style="text-align:right;">%s</td>
            </tr>
            <tr>
              <td>
                <hr style="margin:16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">This message was generated automatically. Please do not reply.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`

const button = `<p style="margin:24px 0;"><a href="%s" style="display:inline-block;padding:12px 24px;background:#0f766e;color:#fff;text-decoration:none;border-radius:6px;font-weight:600;">%s</a></p>`

// BuildPasswordResetHTML renders the bilingual reset email.
func BuildPasswordResetHTML(link string, expiresAt time.Time) string {
	l := html.EscapeString(link)
	exp := expiresAt.UTC().Format("2006-01-02 15:04 MST")

	en := fmt.Sprintf(`
                <h2 style="color:#0f766e; margin-top:0;">Reset your password</h2>
                <p style="font-size:16px; color:#222;">We received a request to reset the password of your account.</p>
                `+button+`
                <p style="font-size:13px; color:#555;">The link is valid until %s and can be used once.</p>
                <p style="font-size:12px; color:#999;">If the button does not work, copy this link: %s</p>
                <p style="font-size:12px; color:#999;">If you did not request this, you can ignore this email.</p>`,
		l, "Choose a new password", exp, l)

	ar := fmt.Sprintf(`
                <h2 style="color:#0f766e; margin-top:0;">إعادة تعيين كلمة المرور</h2>
                <p style="font-size:16px; color:#222;">تلقّينا طلبًا لإعادة تعيين كلمة المرور الخاصة بحسابك.</p>
                `+button+`
                <p style="font-size:13px; color:#555;">الرابط صالح حتى %s ويُستخدم مرة واحدة فقط.</p>
                <p style="font-size:12px; color:#999;">إذا لم تطلب ذلك فتجاهل هذه الرسالة.</p>`,
		l, "اختر كلمة مرور جديدة", exp)

	return fmt.Sprintf(layout, en, ar)
}

// BuildPasswordChangedHTML renders the notice sent after a successful reset.
func BuildPasswordChangedHTML(at time.Time) string {
	when := at.UTC().Format("2006-01-02 15:04 MST")
	en := fmt.Sprintf(`
                <h2 style="color:#0f766e; margin-top:0;">Your password was changed</h2>
                <p style="font-size:16px; color:#222;">The password of your account was changed on %s.</p>
                <p style="font-size:13px; color:#555;">If this was not you, contact the site owner immediately.</p>`, when)
	ar := fmt.Sprintf(`
                <h2 style="color:#0f766e; margin-top:0;">تم تغيير كلمة المرور</h2>
                <p style="font-size:16px; color:#222;">تم تغيير كلمة مرور حسابك بتاريخ %s.</p>
                <p style="font-size:13px; color:#555;">إن لم تكن أنت من قام بذلك فتواصل مع مسؤول الموقع فورًا.</p>`, when)
	return fmt.Sprintf(layout, en, ar)
}
