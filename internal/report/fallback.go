package report

import (
	"fmt"
	"html/template"
	"strings"
)

// fallbackTemplate renders the same tiered layout locally when no model
// key is configured, so the pipeline stays runnable offline.
var fallbackTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"f2":  func(f float64) string { return fmt.Sprintf("%.2f", f) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>League of Legends - Champion Performance Analysis</title>
<style>
body { font-family: "Segoe UI", Arial, sans-serif; background: #0e1420; color: #e8e8e8; margin: 0; padding: 24px; }
h1 { text-align: center; }
.meta { text-align: center; color: #9aa4b2; margin-bottom: 24px; }
.tier { margin-bottom: 28px; border-radius: 8px; padding: 12px 16px; }
.tier h2 { margin: 4px 0 12px; }
.tier-S { background: #3b2d12; border-left: 6px solid #f0b429; }
.tier-A { background: #16321c; border-left: 6px solid #4caf50; }
.tier-B { background: #13293d; border-left: 6px solid #42a5f5; }
.tier-C { background: #332433; border-left: 6px solid #ab47bc; }
.tier-D { background: #3a1d1d; border-left: 6px solid #ef5350; }
.champ { display: inline-block; background: rgba(255,255,255,0.06); border-radius: 6px; padding: 10px; margin: 6px; width: 210px; vertical-align: top; }
.champ img { width: 50px; height: 50px; border-radius: 4px; float: left; margin-right: 10px; }
.champ .name { font-weight: bold; }
.champ .stat { font-size: 13px; color: #c3ccd9; }
</style>
</head>
<body>
<h1>League of Legends - Champion Performance Analysis</h1>
<div class="meta">Generated {{.GeneratedAt}}{{if .GameVersion}} &middot; patch {{.GameVersion}}{{end}} &middot; {{.TotalMatches}} matches</div>
{{range $tier := .Tiers}}
<div class="tier tier-{{$tier.Name}}">
<h2>{{$tier.Name}} Tier Champions</h2>
{{range $tier.Champions}}
<div class="champ">
<img src="{{.ImageURL}}" alt="{{.ChampionName}}">
<div class="name">{{.ChampionName}}</div>
<div class="stat">Win rate: {{pct .WinRate}}</div>
<div class="stat">KDA: {{f2 .KDA}} &middot; {{.Games}} games</div>
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// ddragonVersion pins the Data Dragon CDN used for champion images in
// the fallback renderer.
const ddragonVersion = "15.4.1"

type fallbackChampion struct {
	ChampionSummary
	ImageURL string
}

type fallbackTier struct {
	Name      string
	Champions []fallbackChampion
}

type fallbackData struct {
	GeneratedAt  string
	GameVersion  string
	TotalMatches int
	Tiers        []fallbackTier
}

// RenderFallback produces the tier report locally from the same input
// the model would receive.
func RenderFallback(input *Input) (string, error) {
	data := fallbackData{
		GeneratedAt:  input.GeneratedAt,
		GameVersion:  input.GameVersion,
		TotalMatches: input.TotalMatches,
	}

	byTier := make(map[string][]fallbackChampion)
	var order []string
	for _, c := range input.Champions {
		if _, seen := byTier[c.Tier]; !seen {
			order = append(order, c.Tier)
		}
		byTier[c.Tier] = append(byTier[c.Tier], fallbackChampion{
			ChampionSummary: c,
			ImageURL: fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/%s/img/champion/%s.png",
				ddragonVersion, championImageKey(c.ChampionName)),
		})
	}
	for _, tier := range order {
		data.Tiers = append(data.Tiers, fallbackTier{Name: tier, Champions: byTier[tier]})
	}

	var sb strings.Builder
	if err := fallbackTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("report: render fallback: %w", err)
	}
	return sb.String(), nil
}

// championImageKey maps a champion display name to its Data Dragon
// image key. Most names match after stripping spaces and punctuation;
// the rest are special-cased.
func championImageKey(name string) string {
	special := map[string]string{
		"Wukong":       "MonkeyKing",
		"Nunu & Willump": "Nunu",
		"Renata Glasc": "Renata",
	}
	if key, ok := special[name]; ok {
		return key
	}
	cleaned := strings.NewReplacer(" ", "", "'", "", ".", "", "&", "").Replace(name)
	return cleaned
}
