// Package snippet builds the WordPress button blocks that the publishing site
// consumes. The markup is a compatibility contract and must not drift.
package snippet

import (
	"fmt"
	"strconv"
	"strings"
)

// Style selects one of the fixed snippet variants.
type Style string

const (
	StyleServer  Style = "server"
	StyleEpisode Style = "episode"
	StyleZip     Style = "zip"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleServer, StyleEpisode, StyleZip}

type variant struct {
	orientation  string
	label        string
	defaultClass string
}

var variants = map[Style]variant{
	StyleServer:  {orientation: "vertical", label: "Server", defaultClass: "movie-btn"},
	StyleEpisode: {orientation: "horizontal", label: "Episode", defaultClass: "series-btn"},
	StyleZip:     {orientation: "vertical", label: "Zip", defaultClass: "zip-btn"},
}

const (
	wrapperOpen = `<!-- wp:buttons{"layout":{"type":"flex","justifyContent":"center","orientation":"{orientation}"}}-->` + "\n" +
		` <div class="wp-block-buttons">` + "\n"
	wrapperClose = "\n</div>\n<!--/wp:buttons-->"

	block = `<!--wp:buttons{"className":"{class}"}-->` + "\n" +
		` <div class="wp-block-button {class}"><a class="wp-block-button__link wp-element-button" href="{url}" target="_blank" rel="noreferrer noopener nofollow">{label} {n}   </a></div>` + "\n" +
		`  <!--/wp:button-->`
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := variants[st]; !ok {
		return "", fmt.Errorf("unknown snippet style %q (want server, episode or zip)", s)
	}
	return st, nil
}

// DefaultClass returns the CSS class a style uses when none is given.
func DefaultClass(style Style) string {
	return variants[style].defaultClass
}

// DownloadURL returns the direct download link for a Drive file ID.
func DownloadURL(id string) string {
	return "https://drive.google.com/uc?id=" + id + "&export=download"
}

// Generate renders the snippet for ids in order. Labels are numbered from 1 by
// input position. An unknown style falls back to the server variant and an
// empty class to the style's default class.
func Generate(ids []string, style Style, class string) string {
	v, ok := variants[style]
	if !ok {
		v = variants[StyleServer]
	}
	if class == "" {
		class = v.defaultClass
	}

	blocks := make([]string, 0, len(ids))
	for i, id := range ids {
		r := strings.NewReplacer(
			"{class}", class,
			"{url}", DownloadURL(id),
			"{label}", v.label,
			"{n}", strconv.Itoa(i+1),
		)
		blocks = append(blocks, r.Replace(block))
	}

	var b strings.Builder
	b.WriteString(strings.Replace(wrapperOpen, "{orientation}", v.orientation, 1))
	b.WriteString(strings.Join(blocks, "\n"))
	b.WriteString(wrapperClose)
	return b.String()
}
