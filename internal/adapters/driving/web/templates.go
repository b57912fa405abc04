package web

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}} - pdfcompare</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; background: #FAFAFA; color: #333F50; }
        header { background: white; border-bottom: 1px solid #C7C8CC; padding: 16px 32px; }
        header a { color: #333F50; text-decoration: none; font-weight: 600; }
        main { padding: 24px 32px; }
        .card { background: white; border: 1px solid #C7C8CC; border-radius: 12px; padding: 24px; margin-bottom: 24px; }
        .tabs { display: flex; flex-wrap: wrap; }
        .tabs input { display: none; }
        .tabs label { order: 1; padding: 8px 16px; border: 1px solid #C7C8CC; border-radius: 8px 8px 0 0; cursor: pointer; background: #F0F0F2; }
        .tabs .panel { order: 2; width: 100%; display: none; border: 1px solid #C7C8CC; background: white; padding: 24px; }
        .tabs input:checked + label { background: white; font-weight: 600; }
        .tabs input:checked + label + .panel { display: block; }
        .meta { color: #7B8088; font-size: 14px; }
        .error { color: #B42318; white-space: pre-wrap; }
        iframe { width: 100%; height: 80vh; border: 0; }
    </style>
</head>
<body>
<header><a href="/">pdfcompare</a></header>
<main>
{{template "content" .}}
</main>
</body>
</html>`

const indexHTML = `{{define "content"}}
<div class="card">
    <h2>Examples</h2>
    <ul>
    {{- range .Index.Examples}}
        <li><a href="/compare?example={{.Name}}">{{.Label}}</a> <span class="meta">{{.Path}}</span></li>
    {{- else}}
        <li class="meta">No examples found.</li>
    {{- end}}
    </ul>
</div>
<div class="card">
    <h2>Upload a PDF</h2>
    <form action="/compare" method="post" enctype="multipart/form-data">
        <input type="file" name="file" accept="application/pdf,.pdf" required>
        <button type="submit">Compare</button>
    </form>
    <p class="meta">Processing runs every method and can take a few minutes.</p>
</div>
{{- if .Index.Recent}}
<div class="card">
    <h2>Recent comparisons</h2>
    <ul>
    {{- range .Index.Recent}}
        <li><a href="/results/{{.ID}}">{{.Document}}</a> <span class="meta">{{.Created}}{{if .Failures}}, {{.Failures}} failed{{end}}</span></li>
    {{- end}}
    </ul>
</div>
{{- end}}
{{end}}`

const resultsHTML = `{{define "content"}}
<h2>{{.Results.Document}}</h2>
<p class="meta">{{.Results.Size}} bytes &middot; <a href="/original?id={{.Results.ID}}">download original</a></p>
<div class="tabs">
{{- range $i, $t := .Results.Tabs}}
    <input type="radio" name="method" id="tab-{{.ID}}"{{if eq $i 0}} checked{{end}}>
    <label for="tab-{{.ID}}">{{.Label}}</label>
    <div class="panel" id="panel-{{.ID}}">
    {{- if .Original}}
        <iframe src="{{.Original}}" title="Original Document"></iframe>
    {{- else}}
        <p class="meta">{{if .Failed}}failed{{else}}{{if .Cached}}cached{{else}}computed in {{.Duration}}{{end}}{{end}}</p>
        {{.HTML}}
    {{- end}}
    </div>
{{- end}}
</div>
{{end}}`

const messageHTML = `{{define "content"}}
<div class="card">
    <p>{{.Message}}</p>
    <p><a href="/">Back</a></p>
</div>
{{end}}`
