package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/semv/internal/lookup"
	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/Digital-Shane/semv/internal/snippet"
	"github.com/Digital-Shane/semv/internal/ui/theme"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// maxNameWidth is the column width file names are truncated to.
const maxNameWidth = 48

// renderOutcome formats a lookup result for the terminal.
func renderOutcome(th theme.Theme, out *lookup.Outcome) string {
	var b strings.Builder

	title := out.Result.Title
	if title == "" {
		title = out.ID
	}
	year := displayYear(out)
	if year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	b.WriteString(th.TitleStyle().Render(th.Icon(contentIcon(out.Request.ContentType)) + " " + title))
	b.WriteString("\n")

	if meta := out.Metadata; meta != nil {
		if meta.Core.Rating > 0 {
			b.WriteString(th.LabelStyle().Render("Rating  "))
			b.WriteString(fmt.Sprintf("%s %.1f\n", th.Icon("star"), meta.Core.Rating))
		}
		if len(meta.Core.Genres) > 0 {
			b.WriteString(th.LabelStyle().Render("Genres  "))
			b.WriteString(strings.Join(meta.Core.Genres, ", ") + "\n")
		}
		if meta.Core.Overview != "" {
			b.WriteString(th.MutedStyle().Render(runewidth.Truncate(meta.Core.Overview, 2*maxNameWidth, "…")) + "\n")
		}
	}

	ids := out.Result.FileIDs
	if len(ids) == 0 {
		b.WriteString(th.MutedStyle().Render("No files listed."))
		return th.PanelStyle().Render(b.String())
	}

	var total int64
	for i, id := range ids {
		b.WriteString("\n")
		meta, ok := out.Files[id]
		if !ok {
			b.WriteString(fmt.Sprintf("%2d. %s %s\n", i+1, th.Icon("file"), th.MutedStyle().Render(id)))
		} else {
			icon := th.Icon("file")
			if meta.IsFolder() {
				icon = th.Icon("folder")
			}
			name := runewidth.FillRight(runewidth.Truncate(meta.Name, maxNameWidth, "…"), maxNameWidth)
			size := ""
			if meta.Size > 0 {
				size = humanize.Bytes(uint64(meta.Size))
				total += meta.Size
			}
			b.WriteString(fmt.Sprintf("%2d. %s %s %s\n", i+1, icon, name, th.MutedStyle().Render(size)))
		}
		b.WriteString("    " + th.Icon("link") + " " + snippet.DownloadURL(id))
	}

	b.WriteString("\n\n")
	summary := fmt.Sprintf("%d file(s)", len(ids))
	if total > 0 {
		summary += ", " + humanize.Bytes(uint64(total))
	}
	if missing := len(ids) - len(out.Files); out.Files != nil && missing > 0 {
		summary += fmt.Sprintf(", %d without details", missing)
	}
	b.WriteString(th.BadgeStyle(theme.BadgeInfo).Render(summary))

	return th.PanelStyle().Render(b.String())
}

// renderError turns an error into a single styled line.
func renderError(th theme.Theme, err error) string {
	return th.ErrorStyle().Render(th.Icon("error") + " " + provider.UserMessage(err))
}

func contentIcon(ct provider.ContentType) string {
	switch ct {
	case provider.ContentMovie:
		return "movie"
	case provider.ContentSeries:
		return "series"
	default:
		return "drive"
	}
}

// displayYear prefers the year from the content API over enrichment.
func displayYear(out *lookup.Outcome) string {
	if out.Result.Year != "" {
		return out.Result.Year
	}
	if out.Metadata != nil {
		return out.Metadata.Core.Year
	}
	return ""
}

type jsonFile struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	DownloadURL string `json:"download_url"`
}

type jsonMetadata struct {
	Year     string            `json:"year,omitempty"`
	Overview string            `json:"overview,omitempty"`
	Rating   float32           `json:"rating,omitempty"`
	Genres   []string          `json:"genres,omitempty"`
	IDs      map[string]string `json:"ids,omitempty"`
}

type jsonOutcome struct {
	Type       provider.ContentType `json:"type"`
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Year       string               `json:"year,omitempty"`
	Files      []jsonFile           `json:"files"`
	Snippet    string               `json:"snippet,omitempty"`
	Metadata   *jsonMetadata        `json:"metadata,omitempty"`
	DurationMS int64                `json:"duration_ms"`
}

// renderJSON writes the outcome as indented JSON. Files keep the order of
// the lookup result.
func renderJSON(w io.Writer, out *lookup.Outcome, markup string) error {
	doc := jsonOutcome{
		Type:       out.Request.ContentType,
		ID:         out.ID,
		Title:      out.Result.Title,
		Year:       displayYear(out),
		Files:      make([]jsonFile, 0, len(out.Result.FileIDs)),
		Snippet:    markup,
		DurationMS: out.Duration.Milliseconds(),
	}
	for _, id := range out.Result.FileIDs {
		f := jsonFile{ID: id, DownloadURL: snippet.DownloadURL(id)}
		if meta, ok := out.Files[id]; ok {
			f.Name = meta.Name
			f.Size = meta.Size
			f.MimeType = meta.MimeType
		}
		doc.Files = append(doc.Files, f)
	}
	if meta := out.Metadata; meta != nil {
		doc.Metadata = &jsonMetadata{
			Year:     meta.Core.Year,
			Overview: meta.Core.Overview,
			Rating:   meta.Core.Rating,
			Genres:   meta.Core.Genres,
			IDs:      meta.IDs,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
