package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/locvowork/employee_records/internal/bootstrap"
	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/report"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/textformat"
)

func main() {
	// Define flags
	action := flag.String("action", "list", "Action to perform: list, stats, add, remove, export, serve, push, pull")
	file := flag.String("file", "", "Employee data file (overrides DATA_FILE)")
	referenceYear := flag.Int("reference-year", 0, "Reference year for seniority queries (default: REFERENCE_YEAR or current year)")
	threshold := flag.Int("threshold", -1, "Seniority threshold in years (default: SENIORITY_THRESHOLD_YEARS)")
	lastName := flag.String("last-name", "Nguyễn", "Last name to count")
	record := flag.String("record", "", `Record to add: "id,full name,gender,year of birth,address,salary level,year of employment"`)
	id := flag.Int("id", 0, "Employee ID to remove")
	out := flag.String("out", "employees.xlsx", "Output path of the exported workbook")

	flag.Parse()

	ctx := context.Background()

	app := bootstrap.NewApp()
	app.DataFile = *file
	if err := app.Initialize(ctx); err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	q := service.SummaryQuery{
		ReferenceYear:  *referenceYear,
		ThresholdYears: *threshold,
		LastName:       *lastName,
	}
	if q.ReferenceYear <= 0 {
		q.ReferenceYear = app.ReferenceYear()
	}
	if q.ThresholdYears < 0 {
		q.ThresholdYears = config.DefaultEnvConfig.SENIORITY_THRESHOLD_YEARS
	}

	if err := run(ctx, app, *action, q, *record, *id, *out); err != nil {
		logger.ErrorLog(ctx, "Action %s failed: %v", *action, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", *action, err)
		app.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, action string, q service.SummaryQuery, record string, id int, out string) error {
	svc := app.Service

	switch action {
	case "list":
		loadOrContinue(ctx, svc)
		return report.WriteRecords(os.Stdout, svc.List(ctx))

	case "stats":
		loadOrContinue(ctx, svc)
		return report.WriteSummary(os.Stdout, svc.Summary(ctx, q))

	case "add":
		e, err := textformat.ParseLine(record)
		if err != nil {
			return apperror.Wrap(apperror.CodeValidation, "invalid -record", err)
		}
		if err := loadForUpdate(ctx, svc, os.Stderr); err != nil {
			return err
		}
		if _, err := svc.Add(ctx, e); err != nil {
			return err
		}
		return svc.Save(ctx)

	case "remove":
		if err := loadForUpdate(ctx, svc, os.Stderr); err != nil {
			return err
		}
		if !svc.Remove(ctx, id) {
			fmt.Printf("No employee with ID %d\n", id)
			return nil
		}
		return svc.Save(ctx)

	case "export":
		loadOrContinue(ctx, svc)
		return exportWorkbook(ctx, svc, q, out)

	case "serve":
		loadOrContinue(ctx, svc)
		return app.Run()

	case "push":
		if _, err := svc.Load(ctx); err != nil {
			return err
		}
		return svc.Push(ctx)

	case "pull":
		if _, err := svc.Pull(ctx); err != nil {
			return err
		}
		return svc.Save(ctx)

	default:
		flag.PrintDefaults()
		return apperror.New(apperror.CodeValidation, "unknown action "+action)
	}
}

// loadOrContinue reports a failed load and carries on with an empty store.
func loadOrContinue(ctx context.Context, svc service.EmployeeService) {
	result, err := svc.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load employees: %v\n", err)
		return
	}
	reportSkipped(os.Stderr, result, "not loaded")
}

// loadForUpdate treats a missing data file as an empty store. Any other
// failure aborts so the following save cannot overwrite unread data.
// Skipped lines are reported because the save drops them from the file.
func loadForUpdate(ctx context.Context, svc service.EmployeeService, stderr io.Writer) error {
	result, err := svc.Load(ctx)
	if err != nil && apperror.GetCode(err) != apperror.CodeNotFound {
		return err
	}
	reportSkipped(stderr, result, "dropped on save")
	return nil
}

func reportSkipped(w io.Writer, result service.LoadResult, note string) {
	for _, skipped := range result.Skipped {
		fmt.Fprintf(w, "Skipped %v (%s)\n", skipped, note)
	}
}

func exportWorkbook(ctx context.Context, svc service.EmployeeService, q service.SummaryQuery, out string) (err error) {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := svc.ExportWorkbook(ctx, f, q); err != nil {
		return err
	}
	fmt.Printf("Workbook written to %s\n", out)
	return nil
}
