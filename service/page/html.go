package page

var headPartial = `
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if .Title}}<title>{{.Title}}</title>{{else}}<title>Stolen NFTs Explorer</title>{{end}}
{{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
{{if .Image}}<meta name="twitter:image" content="{{.Image}}">
<meta name="og:image" content="{{.Image}}">{{end}}
<style>
    body { font-family: sans-serif; max-width: 960px; margin: 0 auto; padding: 24px; }
    h1 { text-align: center; margin: 48px 0 8px; }
    .tagline { text-align: center; color: #737373; margin-bottom: 48px; }
    .stats { display: grid; grid-template-columns: 1fr 1fr; gap: 8px; margin-bottom: 44px; }
    .stat { border: 1px solid #d4d4d4; border-radius: 8px; text-align: center; padding: 16px; }
    .stat p { color: #A3A3A3; margin: 4px 0 0; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 44px; }
    th { text-align: left; padding: 12px 24px; }
    td { padding: 16px 24px; }
    tr.row { border-bottom: 1px solid #d4d4d4; }
    .rank { display: inline-block; width: 32px; }
    .collection { display: flex; align-items: center; gap: 8px; color: inherit; text-decoration: none; }
    .collection img { width: 56px; height: 56px; border-radius: 50%; object-fit: cover; }
    footer { text-align: center; opacity: .8; font-size: 12px; margin-bottom: 48px; }
</style>
`

var reportPage = `<!DOCTYPE html>
<html>
<head>
{{template "head" .Meta}}
</head>
<body data-built-at="{{.BuiltAt}}">
    <h1>Stolen NFTs Report</h1>
    <div class="tagline">{{.Tagline}}</div>

    <h4>Overview</h4>
    <div class="stats">
        <div class="stat"><h3>{{count .Views.Summary.TotalStolen}}</h3><p>Total stolen</p></div>
        <div class="stat"><h3>Ξ {{eth .Views.Summary.TotalValue}}</h3><p>Total value</p></div>
    </div>

    <h4>By Value</h4>
    <table id="by-value">
        <thead><tr><th>Collection</th><th>Value</th></tr></thead>
        <tbody>
        {{$nv := len .Views.ByValue}}
        {{range $i, $e := .Views.ByValue}}
            <tr{{if not (last $i $nv)}} class="row"{{end}} data-key="{{$e.Key}}">
                <td>
                    <span class="rank">{{$e.Rank}}</span>
                    <a class="collection" href="{{$e.NavigationPath}}">
                        {{if $e.ImageURL}}<img src="{{$e.ImageURL}}" alt="">{{end}}
                        <span>{{$e.DisplayName}}</span>
                    </a>
                </td>
                <td>Ξ {{eth $e.EstimatedValue}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    <h4>By Count</h4>
    <table id="by-count">
        <thead><tr><th>Collection</th><th>Count</th></tr></thead>
        <tbody>
        {{$nc := len .Views.ByCount}}
        {{range $i, $e := .Views.ByCount}}
            <tr{{if not (last $i $nc)}} class="row"{{end}} data-key="{{$e.Key}}">
                <td>
                    <span class="rank">{{$e.Rank}}</span>
                    <a class="collection" href="{{$e.NavigationPath}}">
                        {{if $e.ImageURL}}<img src="{{$e.ImageURL}}" alt="">{{end}}
                        <span>{{$e.DisplayName}}</span>
                    </a>
                </td>
                <td>{{count $e.StolenCount}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    <footer>
        {{if .Footer}}<p>{{.Footer}}</p>{{end}}
        <p>{{.Date}}</p>
    </footer>

<script>
(function () {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + "/ws");
    ws.onmessage = function (ev) {
        var msg = JSON.parse(ev.data);
        var builtAt = new Date(msg.builtAt).getTime();
        if (msg.type === "views" && builtAt !== new Date(document.body.dataset.builtAt).getTime()) {
            location.reload();
        }
    };
})();
</script>
</body>
</html>
`

var collectionPage = `<!DOCTYPE html>
<html>
<head>
{{template "head" .Meta}}
</head>
<body>
    <p><a href="/">&larr; Stolen NFTs Report</a></p>
    {{with .Record}}
    <h1>{{if .DisplayName}}{{.DisplayName}}{{else}}{{.ContractAddress}}{{end}}</h1>
    <div class="tagline">{{.ContractAddress}}</div>

    <div class="stats">
        <div class="stat"><h3>{{count .StolenCount}}</h3><p>Stolen</p></div>
        <div class="stat"><h3>Ξ {{eth .EstimatedValue}}</h3><p>Estimated value</p></div>
        <div class="stat"><h3>{{ethPtr .FloorPrice}}</h3><p>Floor price</p></div>
        <div class="stat"><h3>{{supply .Supply}}</h3><p>Supply</p></div>
    </div>
    {{end}}

    <table id="windows">
        <thead><tr><th></th><th>Volume</th><th>Volume change</th><th>Floor sale</th><th>Floor sale change</th><th>Floor vs sale</th></tr></thead>
        <tbody>
        {{range .Rows}}
            <tr class="row">
                <td>{{.Label}}</td>
                <td>{{ethPtr .Volume}}</td>
                <td>{{percent .VolumeChange}}</td>
                <td>{{ethPtr .FloorSale}}</td>
                <td>{{percent .FloorSaleChange}}</td>
                <td>{{percent .FloorDelta}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    {{with .Record.ScamActivity}}
    <h4>Scam Activity</h4>
    <table id="scam-activity">
        <tbody>
            {{if .FirstSeen}}<tr class="row"><td>Time</td><td>{{date .FirstSeen}}</td></tr>{{end}}
            <tr>
                <td>Attackers</td>
                <td>
                {{range .Attackers}}
                    <div><a href="{{.URL}}" target="_blank" rel="noopener noreferrer" title="{{.Address}}">{{shortAddr .Address}}</a></div>
                {{else}}-{{end}}
                </td>
            </tr>
        </tbody>
    </table>
    {{end}}

    <footer>
        {{if .Footer}}<p>{{.Footer}}</p>{{end}}
        <p>{{.Date}}</p>
    </footer>
</body>
</html>
`

var errorPage = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Stolen NFTs Explorer</title></head>
<body>
    <div>There was an error</div>
</body>
</html>
`
