package templates

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// Layout wraps body in the shared email chrome: header with the product name,
// content card and footer. Styles are inline for mail clients.
func Layout(p Params, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := templ.EscapeString(p.ProductName)
		settings := templ.URL(AbsoluteURL(p.AppURL, "/settings/notifications"))

		parts := []string{
			`<!DOCTYPE html><html><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`, name, `</title></head>`,
			`<body style="margin:0;padding:0;background:#f4f5f7;font-family:Arial,Helvetica,sans-serif;color:#1f2933;">`,
			`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:24px;">`,
			`<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">`,
			`<tr><td style="padding:24px 32px;border-bottom:1px solid #e4e7eb;font-size:20px;font-weight:bold;">`, name, `</td></tr>`,
			`<tr><td style="padding:32px;font-size:15px;line-height:1.6;">`,
		}
		if err := writeAll(w, parts...); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		return writeAll(w,
			`</td></tr>`,
			`<tr><td style="padding:16px 32px;border-top:1px solid #e4e7eb;font-size:12px;color:#7b8794;">`,
			`&copy; `, strconv.Itoa(time.Now().Year()), ` `, name, `. `,
			`<a href="`, templ.EscapeString(string(settings)), `" style="color:#7b8794;">Notification settings</a>`,
			`</td></tr></table></td></tr></table></body></html>`,
		)
	})
}

func writeAll(w io.Writer, parts ...string) error {
	for _, s := range parts {
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}
