package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

type templates struct {
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "fillModes": domain.FillModes,
        "odd":       func(i int) bool { return i%2 == 1 },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-tac-toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}
.row form{margin:0}
.row button{width:2.6em;height:2.6em}
.b-odd button{background:#eef}
.playable button{outline:1px solid #6a6}
.weight{font-size:.6em;color:#888}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>{{.Board.Variant}}</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board" sse-swap="board">{{template "board" .Board}}</div>
</div>
<form hx-post="/game/{{.ID}}/restart" hx-target="#board" hx-swap="outerHTML" method="post">
  <label>X <select name="x"><option value="">keep</option><option>human</option><option>computer</option></select></label>
  <label>O <select name="o"><option value="">keep</option><option>human</option><option>computer</option></select></label>
  {{if .Board.Scored}}<label>Fill <select name="fill"><option value="">keep</option>{{range fillModes}}<option value="{{.}}">{{.}}</option>{{end}}</select></label>{{end}}
  <button>Restart</button>
</form>
<h2>Rules</h2>
<ul>{{range .Board.Rules}}<li>{{.}}</li>{{end}}</ul>
<p><a href="/">New game</a></p>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>Tic-tac-toe</h1>
<form action="/game" method="post">
  <label>Variant
    <select name="variant">
      <option value="classic">classic</option>
      <option value="scored">scored</option>
      <option value="ultimate">ultimate</option>
    </select>
  </label>
  <label>Size <input name="size" type="number" min="3" max="16"></label>
  <label>Line length <input name="winlen" type="number" min="3" max="16"></label>
  <label>Win rule
    <select name="rule">
      <option value="full-line">full line</option>
      <option value="run">run</option>
    </select>
  </label>
  <label>Fill
    <select name="fill">{{range fillModes}}<option value="{{.}}">{{.}}</option>{{end}}</select>
  </label>
  <label>Seed <input name="seed" type="number" min="0"></label>
  <label>X <select name="x"><option>human</option><option>computer</option></select></label>
  <label>O <select name="o"><option>human</option><option>computer</option></select></label>
  <button>Create</button>
</form>
<p><a href="/stats">Statistics</a></p>`

const boardTemplate = `
<div id="board" data-variant="{{.Variant}}">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Status}}</p>
  {{if .Scored}}
  <p class="score">X {{.Score.XTotal}} (line {{.Score.XLine}}, spent {{.Score.XSpent}}) ·
     O {{.Score.OTotal}} (line {{.Score.OLine}}, spent {{.Score.OSpent}}) ·
     {{.MovesLeft}} moves left · {{.Fill}}</p>
  {{end}}
  {{$id := .ID}}{{$scored := .Scored}}
  {{range .Rows}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post"
            class="{{if .Playable}}playable{{end}}{{if odd .Block}} b-odd{{end}}">
        <input type="hidden" name="r" value="{{.R}}">
        <input type="hidden" name="c" value="{{.C}}">
        <button type="submit"{{if not .Playable}} disabled{{end}}>{{.Mark}}{{if $scored}}<span class="weight">{{.Weight}}</span>{{end}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if .Computer}}
  <form hx-post="/game/{{.ID}}/computer" hx-target="#board" hx-swap="outerHTML" method="post"><button>Computer move</button></form>
  {{end}}
</div>
`

// ensurePlayerCookie returns the player_id cookie, issuing a new uuid when absent.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}

func playerCookie(r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil {
        return c.Value
    }
    return ""
}
