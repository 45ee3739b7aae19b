package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/govadmin/internal/client/client"
	"github.com/dmitrijs2005/govadmin/internal/client/listing"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/client/resources"
	"github.com/dmitrijs2005/govadmin/internal/client/services"
	"github.com/dmitrijs2005/govadmin/internal/client/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderPage formats a listing snapshot as a titled table with a
// pagination footer.
func renderPage(r resources.Resource, s listing.Snapshot[models.Record]) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Title))
	b.WriteString("\n")

	if len(s.Filters) > 0 {
		keys := make([]string, 0, len(s.Filters))
		for k := range s.Filters {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + s.Filters[k]
		}
		b.WriteString(mutedStyle.Render("filters: " + strings.Join(parts, ", ")))
		b.WriteString("\n")
	}

	if len(s.Items) == 0 {
		b.WriteString(mutedStyle.Render("No records found."))
		b.WriteString("\n")
	} else {
		headers := make([]string, len(r.Columns))
		for i, c := range r.Columns {
			headers[i] = c.Header
		}
		rows := make([][]string, len(s.Items))
		for i, item := range s.Items {
			row := make([]string, len(r.Columns))
			for j, c := range r.Columns {
				row[j] = item.Field(c.Field)
			}
			rows[i] = row
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(headers...).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		b.WriteString(t.String())
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("page %d of %d, %d items", s.Page, max(s.TotalPages(), 1), s.TotalItems)
	if s.Sort != "" {
		footer += ", sort " + s.Sort
	}
	b.WriteString(mutedStyle.Render(footer))
	return b.String()
}

func renderCatalog(rs []resources.Resource) string {
	rows := make([][]string, len(rs))
	for i, r := range rs {
		actions := make([]string, len(r.Actions))
		for j, act := range r.Actions {
			actions[j] = string(act)
		}
		rows[i] = []string{r.Name, r.Title, strings.Join(actions, ", ")}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Resource", "Title", "Actions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// describeError turns a command failure into the message shown to the
// user.
func describeError(err error) string {
	var (
		verr *client.ValidationError
		lerr *session.LoginError
		perr *listing.InvalidPageError
	)

	switch {
	case errors.As(err, &verr):
		lines := []string{"Please fix the following:"}
		for _, m := range verr.Messages {
			lines = append(lines, "  - "+m)
		}
		return strings.Join(lines, "\n")

	case errors.As(err, &lerr):
		switch lerr.Kind {
		case session.LoginBadCredentials:
			return "Invalid email or password."
		case session.LoginAccountLocked:
			return "This account is locked. Contact an administrator."
		case session.LoginUnavailable:
			return "The server is unavailable. Try logging in again."
		case session.LoginTimeout:
			return "The server did not answer in time. Try logging in again."
		case session.LoginStorage:
			return "Signed in, but the session could not be saved locally."
		}
		return "Login failed: " + lerr.Err.Error()

	case errors.Is(err, session.ErrSuperseded):
		return "Login was cancelled by a newer session action."
	case errors.Is(err, client.ErrForbidden):
		return "You do not have permission for this resource."
	case errors.Is(err, client.ErrNotFound):
		return "The record was not found. It may have been removed."
	case errors.Is(err, client.ErrAccountLocked):
		return "This account is locked. Contact an administrator."
	case errors.Is(err, client.ErrTimeout):
		return "The server did not answer in time. Run 'refresh' to retry."
	case errors.Is(err, client.ErrUnavailable):
		return "The server is unavailable. Run 'refresh' to retry."
	case errors.As(err, &perr):
		if perr.TotalPages < 1 {
			return fmt.Sprintf("Page %d does not exist.", perr.Page)
		}
		return fmt.Sprintf("Page %d does not exist; choose 1 to %d.", perr.Page, perr.TotalPages)
	case errors.Is(err, listing.ErrInvalidPageSize):
		return "Page size must be a positive number."
	case errors.Is(err, services.ErrUnknownResource):
		return err.Error() + ". Run 'resources' to see what is available."
	case errors.Is(err, services.ErrUnsupportedAction),
		errors.Is(err, services.ErrMissingRecordID),
		errors.Is(err, errUsage),
		errors.Is(err, errNoResource),
		errors.Is(err, errUnknownFilter):
		return err.Error()
	case errors.Is(err, errLastPage):
		return "Already on the last page."
	case errors.Is(err, errFirstPage):
		return "Already on the first page."
	}
	return "Error: " + err.Error()
}

func renderError(err error) {
	if client.IsRetryable(err) {
		printlnFn(warnStyle.Render(describeError(err)))
		return
	}
	printlnFn(errorStyle.Render(describeError(err)))
}
