// Command sheet_audit validates the backing spreadsheets before a
// deployment: required columns, duplicate keys, out-of-range scores and
// unknown statuses or roles. It exits non-zero when problems are found.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/pkg/config"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall audit timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc, err := sheets.NewService(ctx, cfg.Sheets)
	if err != nil {
		log.Fatalf("failed to init sheets client: %v", err)
	}

	var problems []string
	problems = append(problems, auditScores(ctx, sheets.NewWorksheet(svc, cfg.Sheets.ScoresSpreadsheetID, cfg.Sheets.ScoresWorksheet, nil))...)
	problems = append(problems, auditUsers(ctx, sheets.NewWorksheet(svc, cfg.Sheets.UsersSpreadsheetID, cfg.Sheets.UsersWorksheet, nil))...)

	if len(problems) == 0 {
		fmt.Println("sheets OK")
		return
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, p)
	}
	os.Exit(1)
}

func auditScores(ctx context.Context, store sheets.Store) []string {
	table, err := store.Snapshot(ctx)
	if err != nil {
		return []string{fmt.Sprintf("scores: snapshot failed: %v", err)}
	}

	var problems []string
	for _, col := range []string{"Indexnumber", "Course", "Lecturer", "Score", "Ca", "Status"} {
		if !table.HasColumn(col) {
			problems = append(problems, fmt.Sprintf("scores: missing column %s", col))
		}
	}

	seen := make(map[string]int)
	for i, row := range table.Rows {
		sheetRow := table.SheetRow(i)
		index := row.Get("Indexnumber")
		course := row.Get("Course")
		if index == "" || course == "" {
			problems = append(problems, fmt.Sprintf("scores row %d: blank index number or course", sheetRow))
			continue
		}
		key := sheets.Fold(index) + "|" + sheets.Fold(course)
		if first, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("scores row %d: duplicate of row %d (%s, %s)", sheetRow, first, index, course))
		} else {
			seen[key] = sheetRow
		}

		if ca := row.Float("Ca"); ca < 0 || ca > models.MaxCA {
			problems = append(problems, fmt.Sprintf("scores row %d: CA %.1f out of range", sheetRow, ca))
		}
		if score := row.Float("Score"); score < 0 || score > models.MaxExam {
			problems = append(problems, fmt.Sprintf("scores row %d: score %.1f out of range", sheetRow, score))
		}

		switch status := models.ScoreStatus(row.Get("Status")); status {
		case models.StatusEditable, models.StatusPending, models.StatusApproved, "":
		default:
			problems = append(problems, fmt.Sprintf("scores row %d: unknown status %q", sheetRow, status))
		}
		if row.Get("Lecturer") == "" {
			problems = append(problems, fmt.Sprintf("scores row %d: no lecturer assigned", sheetRow))
		}
	}
	return problems
}

func auditUsers(ctx context.Context, store sheets.Store) []string {
	table, err := store.Snapshot(ctx)
	if err != nil {
		return []string{fmt.Sprintf("users: snapshot failed: %v", err)}
	}

	var problems []string
	for _, col := range []string{"Username", "Password", "Role"} {
		if !table.HasColumn(col) {
			problems = append(problems, fmt.Sprintf("users: missing column %s", col))
		}
	}

	seen := make(map[string]int)
	for i, row := range table.Rows {
		sheetRow := table.SheetRow(i)
		username := row.Get("Username")
		if username == "" {
			problems = append(problems, fmt.Sprintf("users row %d: blank username", sheetRow))
			continue
		}
		key := sheets.Fold(username)
		if first, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("users row %d: duplicate username of row %d (%s)", sheetRow, first, username))
		} else {
			seen[key] = sheetRow
		}
		if row.Get("Password") == "" {
			problems = append(problems, fmt.Sprintf("users row %d: blank password", sheetRow))
		}
		switch role := models.UserRole(row.Get("Role")); role {
		case models.RoleLecturer, models.RoleAdmin:
		default:
			problems = append(problems, fmt.Sprintf("users row %d: unknown role %q", sheetRow, role))
		}
	}
	return problems
}
