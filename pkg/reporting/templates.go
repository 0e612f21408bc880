/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for scan reports.
*/

package reporting

// reportHTML is the page template for a Report
const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; background: #f4f5fb; color: #333; }
        .container { max-width: 1400px; margin: 0 auto; padding: 20px; }
        .card { background: #fff; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,0.08); padding: 16px 20px; margin-bottom: 20px; }
        .error { color: #b00020; font-weight: bold; }
        table { border-collapse: collapse; width: 100%; font-family: monospace; font-size: 13px; }
        th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #eee; }
        th { background: #667eea; color: #fff; }
        tr.VOID td { color: #999; }
        .meta { color: #777; font-size: 12px; }
    </style>
</head>
<body>
<div class="container">
    <h1>{{.Title}}</h1>
    <p class="meta">version {{.Version}} &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
    {{range .Scans}}
    <div class="card">
        <h2>{{.Source}}</h2>
        <p class="meta">scan {{.ScanID}}</p>
        {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
        {{with .Summary}}
        <p>words={{.Words}} data_runs={{.DataRuns}} void_runs={{.VoidRuns}} short_gaps={{.ShortGaps}} data_bytes={{.DataBytes}} void_bytes={{.VoidBytes}}</p>
        {{end}}
        {{with histogram .Summary}}
        <table>
            <tr><th>type</th><th>runs</th></tr>
            {{range .}}<tr><td>{{.Type}}</td><td>{{.Count}}</td></tr>{{end}}
        </table>
        {{end}}
        <table>
            <tr><th>tag</th><th>start</th><th>end</th><th>size</th><th>probably</th><th>min</th><th>max</th><th>float</th><th>string</th></tr>
            {{range .Records}}{{if or (eq .Tag "DATA") (eq .Tag "VOID")}}
            <tr class="{{.Tag}}">
                <td>{{.Tag}}</td><td>{{hex .Start}}</td><td>{{hex .End}}</td><td>{{.Size}}</td>
                {{with .Inference}}<td>{{.AssumedType}}</td><td>{{.Min}}</td><td>{{.Max}}</td><td>{{.FloatPlausible}}</td><td>{{.StringPlausible}}</td>{{else}}<td colspan="5"></td>{{end}}
            </tr>
            {{end}}{{end}}
        </table>
    </div>
    {{end}}
</div>
</body>
</html>
`
