// torquebench is the command-line companion to the torque-testing bench:
// it owns the local database, scans wrench labels with the vision model,
// records live test readings from the gauge, and exports calibration
// summaries.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/c-trac/torquebench/constants"
	"github.com/c-trac/torquebench/internal/acquisition"
	"github.com/c-trac/torquebench/internal/common"
	"github.com/c-trac/torquebench/internal/ctrac"
	"github.com/c-trac/torquebench/internal/export"
	"github.com/c-trac/torquebench/internal/extraction"
	"github.com/c-trac/torquebench/internal/llm/openai"
	"github.com/c-trac/torquebench/internal/repository"
	"github.com/c-trac/torquebench/internal/torque"
)

func main() {
	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("torquebench")
	var (
		dbPath   = fs.StringLong("db", cfg.Database.Path, "Database file path")
		image    = fs.StringLong("image", "", "Label image to scan (scan mode)")
		portName = fs.StringLong("port", "", "Serial port for live readings (test mode)")
		baudRate = fs.IntLong("baud", acquisition.DefaultBaudRate, "Serial baud rate")
		specID   = fs.IntLong("spec", 0, "Torque spec id (test and export modes)")
		outDir   = fs.StringLong("out", cfg.Export.ExcelDir, "Directory for exported summaries")
		apiKey   = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		model    = fs.StringLong("openai-model", "", "OpenAI model name (default from the model catalog)")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TORQUEBENCH"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	args := fs.GetArgs()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: torquebench [flags] <scan|specs|ports|test|export|import>")
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		os.Exit(2)
	}
	mode := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repository.Open(ctx, repository.Config{
		Path:        *dbPath,
		BusyTimeout: cfg.Database.BusyTimeout,
	}, logger)
	cancel()
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	settings := repository.NewSettingsRepository(db, logger)
	specs := repository.NewSpecRepository(db, logger)
	models := repository.NewModelRepository(db, logger)
	readings := repository.NewReadingRepository(db, logger)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := specs.SeedDefaults(seedCtx); err != nil {
		logger.Error("seed torque specs", "error", err)
	}
	if err := models.SeedDefaults(seedCtx); err != nil {
		logger.Error("seed model catalog", "error", err)
	}
	if _, ok, _ := settings.Get(seedCtx, "ctrac_app_url"); !ok {
		_ = settings.Set(seedCtx, "ctrac_app_url", cfg.CTrac.BaseURL)
	}
	if _, ok, _ := settings.Get(seedCtx, "ctrac_api_token"); !ok {
		_ = settings.Set(seedCtx, "ctrac_api_token", cfg.CTrac.APIToken)
	}
	cancel()

	app := &app{
		logger:   logger,
		cfg:      cfg,
		settings: settings,
		specs:    specs,
		readings: readings,
		outDir:   *outDir,
	}

	var runErr error
	switch mode {
	case "scan":
		runErr = app.runScan(*image, *apiKey, *model)
	case "specs":
		runErr = app.runSpecs()
	case "ports":
		runErr = app.runPorts()
	case "test":
		runErr = app.runTest(*portName, *baudRate, *specID)
	case "export":
		runErr = app.runExport(*specID)
	case "import":
		if len(args) < 2 {
			runErr = fmt.Errorf("import mode requires a line-item id")
		} else {
			runErr = app.runImport(args[1])
		}
	default:
		runErr = fmt.Errorf("unknown mode %q (want scan, specs, ports, test, export or import)", mode)
	}
	if runErr != nil {
		logger.Error("run failed", "mode", mode, "error", runErr)
		os.Exit(1)
	}
}

type app struct {
	logger   *slog.Logger
	cfg      *common.Config
	settings repository.SettingsRepository
	specs    repository.SpecRepository
	readings repository.ReadingRepository
	outDir   string
}

// runScan extracts the nine label fields from an image, tries to match a
// stored spec against the extracted rating, and prints both.
func (a *app) runScan(image, apiKey, model string) error {
	if image == "" {
		return fmt.Errorf("scan mode requires --image")
	}
	if ext := constants.NormalizeExt(filepath.Ext(image)); ext != "" {
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			a.logger.Warn("unusual image extension, sending anyway", "ext", ext)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// settings override env, flags override both — same precedence the
	// settings dialog gives
	if apiKey == "" {
		apiKey = a.settings.GetOrDefault(ctx, "openai_api_key", a.cfg.LLM.APIKey)
	}
	if model == "" {
		model = a.settings.GetOrDefault(ctx, "openai_model", a.cfg.LLM.Model)
	}
	if apiKey == "" {
		return fmt.Errorf("no OpenAI API key configured")
	}

	client := openai.NewClient(openai.Config{
		APIKey:      apiKey,
		BaseURL:     a.cfg.LLM.BaseURL,
		Model:       model,
		Temperature: a.cfg.LLM.Temperature,
		Timeout:     a.cfg.LLM.Timeout,
	}, a.logger)
	service := extraction.NewService(client, a.logger)

	result := service.Extract(ctx, image)
	if result.Err != nil {
		a.logger.Warn("extraction degraded, all fields empty", "error", result.Err)
	}

	out, err := json.MarshalIndent(result.Fields, "", "  ")
	if err != nil {
		return err
	}
	os.Stdout.Write(append(out, '\n'))

	a.matchAndReport(ctx, result.Fields.MaxTorque, result.Fields.TorqueUnit)
	return nil
}

// matchAndReport mirrors the form's auto-selection: convert the extracted
// rating to Nm and look for a stored spec within tolerance.
func (a *app) matchAndReport(ctx context.Context, maxTorque, torqueUnit string) {
	if maxTorque == "" {
		return
	}
	value, err := strconv.ParseFloat(maxTorque, 64)
	if err != nil {
		return
	}

	units := torque.NewUnitTable(
		a.settings.GetOrDefault(ctx, "synonyms_ft_lb", ""),
		a.settings.GetOrDefault(ctx, "synonyms_in_lb", ""),
		a.settings.GetOrDefault(ctx, "synonyms_nm", ""),
	)
	stored, err := a.specs.List(ctx)
	if err != nil {
		return
	}
	if spec, ok := torque.MatchSpec(units, stored, value, torqueUnit); ok {
		a.logger.Info("matched torque spec",
			"spec_id", spec.ID,
			"max_torque", spec.MaxTorque,
			"unit", spec.Unit,
			"type", spec.Type,
		)
	} else {
		a.logger.Info("no stored spec within tolerance",
			"max_torque", maxTorque, "unit", torqueUnit)
	}
}

func (a *app) runSpecs() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stored, err := a.specs.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range stored {
		fmt.Printf("%3d  %8.1f %-6s %-18s applied=%v  %s | %s | %s\n",
			s.ID, s.MaxTorque, s.Unit, s.Type, s.AppliedTorques,
			s.Allowances[0], s.Allowances[1], s.Allowances[2])
	}
	return nil
}

func (a *app) runPorts() error {
	ports, err := acquisition.ListPorts()
	if err != nil {
		return err
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

// runTest streams readings from the gauge into a session for the chosen
// spec until interrupted, then writes the summary workbook.
func (a *app) runTest(portName string, baudRate, specID int) error {
	if portName == "" {
		return fmt.Errorf("test mode requires --port")
	}
	if specID == 0 {
		return fmt.Errorf("test mode requires --spec")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stored, err := a.specs.List(ctx)
	if err != nil {
		return err
	}
	var spec torque.Spec
	found := false
	for _, s := range stored {
		if s.ID == specID {
			spec, found = s, true
			break
		}
	}
	if !found {
		return fmt.Errorf("no torque spec with id %d: %w", specID, common.ErrNotFound)
	}

	port, err := acquisition.OpenPort(portName, baudRate)
	if err != nil {
		return fmt.Errorf("open port %s: %w", portName, err)
	}
	defer port.Close()

	session := torque.NewSession(spec, a.readings, a.logger)
	reader := acquisition.NewReader(a.logger)
	values := reader.Stream(ctx, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.logger.Info("test started", "spec_id", spec.ID, "port", portName, "baud", baudRate)

loop:
	for {
		select {
		case value, ok := <-values:
			if !ok {
				break loop
			}
			fits := session.Record(ctx, value)
			a.logger.Info("reading", "value", value, "in_allowance", len(fits) > 0)
		case <-sigChan:
			a.logger.Info("stopping test")
			break loop
		}
	}

	return a.exportSummary(ctx, spec, session.Rows())
}

// runExport rebuilds the summary workbook for a spec from readings
// recorded in earlier test runs.
func (a *app) runExport(specID int) error {
	if specID == 0 {
		return fmt.Errorf("export mode requires --spec")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stored, err := a.specs.List(ctx)
	if err != nil {
		return err
	}
	var spec torque.Spec
	found := false
	for _, s := range stored {
		if s.ID == specID {
			spec, found = s, true
			break
		}
	}
	if !found {
		return fmt.Errorf("no torque spec with id %d: %w", specID, common.ErrNotFound)
	}

	recorded, err := a.readings.ListBySpec(ctx, specID)
	if err != nil {
		return err
	}
	byRange := make(map[string][]float64)
	for _, r := range recorded {
		byRange[r.RangeStr] = append(byRange[r.RangeStr], r.TorqueValue)
	}

	rows := make([]torque.SummaryRow, 0, len(spec.Allowances))
	for i := 1; i <= len(spec.Allowances); i++ {
		var applied float64
		if i-1 < len(spec.AppliedTorques) {
			applied = spec.AppliedTorques[i-1]
		}
		rng := spec.Allowance(i)
		rows = append(rows, torque.SummaryRow{
			Applied:  applied,
			RangeStr: rng,
			Tests:    byRange[rng],
		})
	}
	return a.exportSummary(ctx, spec, rows)
}

// runImport pulls wrench and customer information for a C-Trac line item
// and prints it in the same nine-field shape a label scan produces.
func (a *app) runImport(lineItemID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token := a.settings.GetOrDefault(ctx, "ctrac_api_token", a.cfg.CTrac.APIToken)
	baseURL := a.settings.GetOrDefault(ctx, "ctrac_app_url", a.cfg.CTrac.BaseURL)
	if token == "" {
		return fmt.Errorf("no C-Trac API token configured")
	}

	client := ctrac.NewClient(ctrac.Config{
		BaseURL:  baseURL,
		APIToken: token,
		Timeout:  a.cfg.CTrac.Timeout,
	}, a.logger)

	item, err := client.GetLineItem(ctx, lineItemID)
	if err != nil {
		return err
	}
	var company *ctrac.Company
	if id := item.CompanyAsset.CompanyID.String(); id != "" && id != "0" {
		if company, err = client.GetCompany(ctx, id); err != nil {
			a.logger.Warn("company lookup failed", "company_id", id, "error", err)
			company = nil
		}
	}

	fields := ctrac.ApplyLineItem(item, company)
	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return err
	}
	os.Stdout.Write(append(out, '\n'))

	a.matchAndReport(ctx, fields.MaxTorque, fields.TorqueUnit)
	return nil
}

func (a *app) exportSummary(ctx context.Context, spec torque.Spec, rows []torque.SummaryRow) error {
	svc := export.NewService(a.logger)
	today := time.Now().Format("2006-01-02")
	summary := export.Summary{
		CalibrationDate: today,
		CalibrationDue:  time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		MaxTorque:       fmt.Sprintf("%v %s", spec.MaxTorque, spec.Unit),
		Rows:            rows,
	}
	data, err := svc.SummaryXLSX(summary)
	if err != nil {
		return err
	}

	template := a.settings.GetOrDefault(ctx, "excel_filename_template", a.cfg.Export.FilenameTemplate)
	filename := export.ExpandTemplate(template, map[string]string{
		"CustomerCompany": "bench",
		"CalibrationDate": today,
		"MaxTorque":       summary.MaxTorque,
	})
	path := filepath.Join(a.outDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	a.logger.Info("summary exported", "path", path)
	return nil
}
