// Package templates renders the transactional emails sent by mentorkit.
//
// Each Kind has a subject line, an HTML body and a plain-text body. HTML
// bodies are html/template fragments wrapped in a shared templ layout, so all
// interpolated values are escaped. Relative links are resolved against
// Params.AppURL.
package templates
