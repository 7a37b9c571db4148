package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	TplOrderConfirmation = "order-confirmation"
	TplOrderStatus       = "order-status"
	TplOrderFailed       = "order-failed"
	TplAdminNewOrder     = "admin-new-order"
	TplEventReminder     = "event-reminder"
	TplQuestionAnswered  = "question-answered"
	TplSubscribed        = "subscribed"
)

const layout = `{{define "layout"}}<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937;max-width:560px;margin:auto">
<h2 style="color:#047857">{{.AppName}}</h2>
{{template "content" .}}
<p style="font-size:12px;color:#6b7280">This is an automated message from {{.AppName}}.</p>
</body></html>{{end}}`

var bodies = map[string]string{
	TplOrderConfirmation: `{{define "content"}}<p>Assalamu alaikum {{.Order.CustomerName}},</p>
<p>Your payment for <b>{{.BookTitle}}</b> was received.</p>
<table>
<tr><td>Order</td><td>{{.Order.TranID}}</td></tr>
<tr><td>Quantity</td><td>{{.Order.Quantity}}</td></tr>
<tr><td>Total</td><td>{{.Order.TotalAmount}} {{.Order.Currency}}</td></tr>
</table>
<p><a href="{{.Link}}">Track your order</a></p>{{end}}`,

	TplOrderStatus: `{{define "content"}}<p>Assalamu alaikum {{.Order.CustomerName}},</p>
<p>Your order <b>{{.Order.TranID}}</b> is now <b>{{.Order.Status}}</b>.</p>
<p><a href="{{.Link}}">View order</a></p>{{end}}`,

	TplOrderFailed: `{{define "content"}}<p>Assalamu alaikum {{.Order.CustomerName}},</p>
<p>The payment for order <b>{{.Order.TranID}}</b> did not go through ({{.Order.Status}}).
No money was taken. You can try again from the book page.</p>{{end}}`,

	TplAdminNewOrder: `{{define "content"}}<p>New paid order <b>{{.Order.TranID}}</b></p>
<ul>
<li>Book: {{.BookTitle}} x {{.Order.Quantity}}</li>
<li>Total: {{.Order.TotalAmount}} {{.Order.Currency}}</li>
<li>Customer: {{.Order.CustomerName}} &lt;{{.Order.CustomerEmail}}&gt; {{.Order.CustomerPhone}}</li>
<li>Ship to: {{.Order.ShippingAddress}}, {{.Order.City}}</li>
</ul>{{end}}`,

	TplEventReminder: `{{define "content"}}<p>Assalamu alaikum,</p>
<p>Reminder: <b>{{.Event.Title}}</b> starts {{if eq .Window "hourly"}}within the hour{{else}}tomorrow{{end}},
at {{.StartsAt}}{{if .Event.Location}} ({{.Event.Location}}){{end}}.</p>
<p><a href="{{.Link}}">Event details</a></p>{{end}}`,

	TplQuestionAnswered: `{{define "content"}}<p>Assalamu alaikum,</p>
<p>Your question <b>{{.Title}}</b> has been answered.</p>
<blockquote>{{.Answer}}</blockquote>
<p><a href="{{.Link}}">Read it online</a></p>{{end}}`,

	TplSubscribed: `{{define "content"}}<p>Assalamu alaikum{{if .Name}} {{.Name}}{{end}},</p>
<p>You are subscribed to news and programme updates from {{.AppName}}.</p>
<p>Changed your mind? <a href="{{.UnsubscribeLink}}">Unsubscribe</a> at any time.</p>{{end}}`,
}

var templates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for name, body := range bodies {
		t := template.Must(template.New(name).Parse(layout))
		out[name] = template.Must(t.Parse(body))
	}
	return out
}()

// Render executes a named template. data must carry an AppName field or key.
func Render(name string, data any) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
