// Package export renders a user's tasks as a PDF document.
package export

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/tactache/tactache-api/internal/constants"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/utils"
)

const (
	margin        = 15.0
	cardHeight    = 18.0
	maxTitleRunes = 60
	maxDescRunes  = 90
)

type rgb struct{ r, g, b int }

var (
	primary     = rgb{66, 153, 225}
	primaryDark = rgb{49, 130, 206}
	textDark    = rgb{45, 55, 72}
	textMuted   = rgb{113, 128, 150}
	cardFill    = rgb{247, 250, 252}

	statusColors = map[models.TaskStatus]rgb{
		models.TaskStatusTodo:       {237, 137, 54},
		models.TaskStatusInProgress: {66, 153, 225},
		models.TaskStatusDone:       {72, 187, 120},
	}
)

// Input is everything a rendered export depends on.
type Input struct {
	Owner       string
	Tasks       []models.Task
	GeneratedAt time.Time
	// Loc is the zone dates are printed in; nil means UTC.
	Loc *time.Location
}

// Filename returns the attachment name of an export generated at t.
func Filename(t time.Time) string {
	return "taches_" + t.Format("2006-01-02") + ".pdf"
}

// Render writes the PDF for in to w.
func Render(w io.Writer, in Input) error {
	loc := in.Loc
	if loc == nil {
		loc = time.UTC
	}
	generated := in.GeneratedAt.In(loc)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetTitle("TacTâche - "+in.Owner, true)
	pdf.SetCreator("TacTâche", true)
	pdf.SetCreationDate(generated)
	pdf.SetMargins(margin, 32, margin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		fill(pdf, primary)
		pdf.Rect(0, 0, pageWidth, 25, "F")
		fill(pdf, primaryDark)
		pdf.Rect(0, 20, pageWidth, 5, "F")

		pdf.SetTextColor(255, 255, 255)
		pdf.SetY(6)
		pdf.SetFont("Helvetica", "B", 20)
		pdf.CellFormat(0, 8, tr("TacTâche"), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 4, tr("Exporté le "+generated.Format("02/01/2006 à 15:04")), "", 1, "C", false, 0, "")
		pdf.SetY(32)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetDrawColor(primary.r, primary.g, primary.b)
		pdf.SetLineWidth(0.5)
		pdf.Line(margin, pdf.GetY(), pageWidth-margin, pdf.GetY())
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(textMuted.r, textMuted.g, textMuted.b)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetTextColor(textDark.r, textDark.g, textDark.b)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Tâches de "+in.Owner), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(in.Tasks) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(textMuted.r, textMuted.g, textMuted.b)
		pdf.CellFormat(0, 8, tr("Aucune tâche à exporter."), "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	summary(pdf, tr, in.Tasks)
	pdf.Ln(4)

	for i := range in.Tasks {
		card(pdf, tr, pageWidth, &in.Tasks[i], loc)
	}

	return pdf.Output(w)
}

func summary(pdf *fpdf.Fpdf, tr func(string) string, tasks []models.Task) {
	counts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, t := range tasks {
		counts[t.Status]++
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, status := range models.TaskStatuses {
		c := statusColors[status]
		fill(pdf, c)
		pdf.Circle(pdf.GetX()+2, pdf.GetY()+3, 1.5, "F")
		pdf.SetX(pdf.GetX() + 6)
		pdf.SetTextColor(textDark.r, textDark.g, textDark.b)
		pdf.CellFormat(50, 6, tr(fmt.Sprintf("%s : %d", status.Label(), counts[status])), "", 0, "L", false, 0, "")
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total : %d", len(tasks))), "", 1, "L", false, 0, "")
}

func card(pdf *fpdf.Fpdf, tr func(string) string, pageWidth float64, task *models.Task, loc *time.Location) {
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+cardHeight > pageHeight-25 {
		pdf.AddPage()
	}

	y := pdf.GetY()
	width := pageWidth - 2*margin

	fill(pdf, cardFill)
	pdf.RoundedRect(margin, y, width, cardHeight, 2, "1234", "F")

	c, ok := statusColors[task.Status]
	if !ok {
		c = rgb{200, 200, 200}
	}
	fill(pdf, c)
	pdf.Circle(margin+5, y+cardHeight/2, 2.5, "F")

	pdf.SetXY(margin+12, y+3)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(textDark.r, textDark.g, textDark.b)
	pdf.CellFormat(width-60, 5, tr(truncate(task.Title, maxTitleRunes)), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(c.r, c.g, c.b)
	pdf.CellFormat(40, 5, tr(task.Status.Label()), "", 0, "R", false, 0, "")

	pdf.SetXY(margin+12, y+9)
	pdf.SetTextColor(textMuted.r, textMuted.g, textMuted.b)
	meta := "Sans échéance"
	if task.DueDate != nil {
		meta = "Échéance : " + utils.FormatDateTime(task.DueDate, constants.ExportDateLayout, loc)
	}
	if task.Assignee != nil {
		meta += "  ·  Assignée à " + task.Assignee.Username
	}
	if task.Description != "" {
		meta += "  ·  " + truncate(task.Description, maxDescRunes)
	}
	pdf.CellFormat(width-20, 5, tr(meta), "", 0, "L", false, 0, "")

	pdf.SetY(y + cardHeight + 3)
}

func fill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
