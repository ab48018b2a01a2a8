package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"millis": func(ms int64) string {
		return time.UnixMilli(ms).Local().Format(time.RFC3339)
	},
	"date": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"indent": func(raw json.RawMessage) string {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "  ", "  "); err != nil {
			return string(raw)
		}
		return buf.String()
	},
	"short": func(s string, n int) string {
		s = strings.ReplaceAll(s, "\n", " ")
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
}

const recordTemplate = `
=== {{.Collection}} record ===

ID:            {{.ID}}
Date:          {{date .Date}}
Status:        {{.SyncStatus}}
Version:       {{.Version}}
Last modified: {{millis .LastModified}}
{{- if .LastError }}
Last error:    {{.LastError}}
{{- end}}

Data:
  {{indent .Data}}
`

const recordListTemplate = `
=== {{.Collection}} ===

{{- if eq (len .Records) 0 }}
No records found.
{{ else }}
Found {{len .Records}} record(s):
{{ range .Records }}
- {{.ID}}  {{date .Date}}  [{{.SyncStatus}}]
  {{short (printf "%s" .Data) 80}}
  {{- if .LastError }}
  error: {{.LastError}}
  {{- end}}
{{- end }}
{{ end -}}
`

const queueTemplate = `
=== Sync queue ===

{{- if eq (len .) 0 }}
Queue is empty.
{{ else }}
{{len .}} pending mutation(s), oldest first:
{{ range . }}
- {{.ID}}
  action: {{.Action}}  queued: {{millis .Timestamp}}  retries: {{.RetryCount}}
  {{- if .LastError }}
  last error: {{.LastError}}
  {{- end}}
{{- end }}
{{ end -}}
`

var (
	recordTmpl     = template.Must(template.New("record").Funcs(templateFuncs).Parse(recordTemplate))
	recordListTmpl = template.Must(template.New("records").Funcs(templateFuncs).Parse(recordListTemplate))
	queueTmpl      = template.Must(template.New("queue").Funcs(templateFuncs).Parse(queueTemplate))
)
