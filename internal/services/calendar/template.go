package calendar

const calendarHTML = `<!DOCTYPE html>
<html lang="pt-PT">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Calendário de Coleta de Lixo - São João de Ver</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; background: #fff; }
    .header { text-align: center; margin-bottom: 30px; padding: 20px; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; border-radius: 10px; }
    .header h1 { font-size: 28px; margin-bottom: 10px; }
    .header p { font-size: 16px; opacity: 0.9; }
    .calendar-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 20px; margin-bottom: 30px; }
    .day-card { border: 2px solid #e5e7eb; border-radius: 12px; padding: 20px; background: white; box-shadow: 0 2px 4px rgba(0,0,0,0.1); page-break-inside: avoid; }
    .day-header { display: flex; align-items: center; justify-content: space-between; margin-bottom: 15px; }
    .day-name { font-size: 18px; font-weight: bold; text-transform: capitalize; color: #374151; }
    .day-icon { font-size: 24px; }
    .coleta-info { padding: 12px; border-radius: 8px; margin-bottom: 10px; text-align: center; }
    .coleta-tipo { font-size: 16px; font-weight: 600; margin-bottom: 5px; }
    .observacao { font-size: 14px; color: #6b7280; font-style: italic; margin-top: 10px; }
    .footer { margin-top: 40px; padding: 20px; background: #f9fafb; border-radius: 10px; border-left: 4px solid #3b82f6; }
    .footer h3 { color: #1f2937; margin-bottom: 10px; }
    .footer ul { list-style: none; padding-left: 0; }
    .footer li { margin-bottom: 5px; font-size: 14px; color: #4b5563; }
    .footer li:before { content: "• "; color: #3b82f6; font-weight: bold; }
    .generated-date { text-align: center; margin-top: 30px; font-size: 12px; color: #9ca3af; }
  </style>
</head>
<body>
  <div class="header">
    <h1>🗑️ Calendário de Coleta de Lixo</h1>
    <p>São João de Ver - Horários e tipos de coleta seletiva na freguesia</p>
  </div>

  <div class="calendar-grid">
    {{- range .Days}}
    <div class="day-card">
      <div class="day-header">
        <span class="day-name">{{.Name}}</span>
        <span class="day-icon">{{.Icon}}</span>
      </div>
      <div class="coleta-info" style="background-color: {{.Color}}">
        <div class="coleta-tipo">{{.Tipo}}</div>
      </div>
      {{- if .Observacao}}
      <div class="observacao"><strong>Obs:</strong> {{.Observacao}}</div>
      {{- end}}
    </div>
    {{- end}}
  </div>

  <div class="footer">
    <h3>📋 Informações Importantes</h3>
    <ul>
      {{- range .Notices}}
      <li>{{.}}</li>
      {{- end}}
    </ul>
  </div>

  <div class="generated-date">Documento gerado em {{.GeneratedAt}}</div>
</body>
</html>
`
