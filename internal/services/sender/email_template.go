package sender

import "html/template"

var emailTemplates = template.Must(template.New("document").Parse(documentHTML))

func init() {
	template.Must(emailTemplates.New("body").Parse(bodyHTML))
}

const documentHTML = `<!DOCTYPE html>
<html lang="pt-PT">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;background-color:#f8fafc">
{{template "body" .}}
</body>
</html>
`

const bodyHTML = `<div style="background:#fff;border-radius:12px;padding:30px;box-shadow:0 4px 6px rgba(0,0,0,0.1)">
  <div style="text-align:center;margin-bottom:30px;padding:20px;background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:#fff;border-radius:8px">
    <h1 style="margin:0;font-size:24px">🗑️ Calendário de Coleta de Lixo</h1>
    <p>São João de Ver</p>
  </div>

  <div style="margin-bottom:30px">
    <p>{{.Greeting}}</p>
    <p>{{.MainMessage}}</p>
    <div style="background-color:#e0f2fe;padding:15px;border-radius:8px;border-left:4px solid #0284c7;margin:20px 0">
      <p><strong>📎 {{.PDFDescription}}</strong></p>
    </div>
    {{- if .Features}}
    <p>Este documento contém todas as informações necessárias sobre:</p>
    <ul>
      {{- range .Features}}
      <li>{{.}}</li>
      {{- end}}
    </ul>
    {{- end}}
    <p>{{.ClosingMessage}}</p>
    <p>Com os melhores cumprimentos,<br>
    <strong>{{.Signature}}</strong></p>
  </div>

  <div style="margin-top:20px;padding:15px;background-color:#fef3c7;border-radius:8px;border-left:4px solid #f59e0b">
    <p><strong>⚠️ Gestão de Subscrição:</strong></p>
    <p>{{.UnsubscribeMessage}} ou <a href="{{.UnsubscribeURL}}" style="color:#d97706;text-decoration:none;font-weight:600">clique aqui para cancelar a subscrição</a>.</p>
  </div>

  <div style="margin-top:30px;padding-top:20px;border-top:1px solid #e5e7eb;font-size:14px;color:#6b7280">
    <p>{{.FooterMessage}}</p>
    {{- if .ContactEmail}}
    <p>Para questões ou sugestões, contacte: {{.ContactEmail}}</p>
    {{- end}}
  </div>
</div>
`
