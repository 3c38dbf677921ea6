package export

import (
	"html/template"
	"io"
	"time"

	"geraetewart/internal/entities"
)

const HTMLContentType = "text/html; charset=utf-8"

var snapshotTemplate = template.Must(template.New("snapshot").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 6px; text-align: left; font-size: 0.9em; }
th { background: #b91c1c; color: #fff; }
h2 { font-size: 1.1em; margin-top: 1.5em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Stand: {{.Generated}} – {{.Total}} Geräte</p>
{{range .Groups}}
<h2>{{.Category}} / {{.Location}}</h2>
<table>
<thead><tr>{{range $.Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}
</body>
</html>
`))

type snapshotGroup struct {
	Category string
	Location string
	Rows     [][]string
}

// WriteEquipmentHTML - статический снимок списка оборудования.
func WriteEquipmentHTML(out io.Writer, title string, items []entities.Equipment, now time.Time) error {
	data := struct {
		Title     string
		Generated string
		Total     int
		Headers   []string
		Groups    []snapshotGroup
	}{
		Title:     title,
		Generated: now.Format("02.01.2006 15:04"),
		Total:     len(items),
		Headers:   EquipmentHeaders,
	}
	for _, g := range GroupEquipment(items) {
		sg := snapshotGroup{Category: g.Category, Location: g.Location}
		for _, eq := range g.Items {
			sg.Rows = append(sg.Rows, EquipmentRow(eq))
		}
		data.Groups = append(data.Groups, sg)
	}
	return snapshotTemplate.Execute(out, data)
}
