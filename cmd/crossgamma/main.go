package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/curverisk/bond"
	"github.com/meenmo/curverisk/calendar"
	"github.com/meenmo/curverisk/curve"
	"github.com/meenmo/curverisk/risk"
	"github.com/meenmo/curverisk/utils"
)

type curveJSON struct {
	ZeroRates map[string]float64 `json:"zero_rates" yaml:"zero_rates"`
	Spreads   map[string]float64 `json:"spreads,omitempty" yaml:"spreads"`
}

type cashflowJSON struct {
	Date      string  `json:"date" yaml:"date"`
	Coupon    float64 `json:"coupon" yaml:"coupon"`
	Principal float64 `json:"principal" yaml:"principal"`
}

type instrumentJSON struct {
	// Type is "cashflows", "bond" or "frn".
	Type              string         `json:"type" yaml:"type"`
	Notional          float64        `json:"notional,omitempty" yaml:"notional"`
	CouponRate        float64        `json:"coupon_rate,omitempty" yaml:"coupon_rate"`
	MarginBP          float64        `json:"margin_bp,omitempty" yaml:"margin_bp"`
	EffectiveDate     string         `json:"effective_date,omitempty" yaml:"effective_date"`
	MaturityDate      string         `json:"maturity_date,omitempty" yaml:"maturity_date"`
	FrequencyMonths   int            `json:"frequency_months,omitempty" yaml:"frequency_months"`
	ExchangePrincipal bool           `json:"exchange_principal,omitempty" yaml:"exchange_principal"`
	Cashflows         []cashflowJSON `json:"cashflows,omitempty" yaml:"cashflows"`
}

type taskInput struct {
	TaskID     string         `json:"task_id,omitempty" yaml:"task_id"`
	CurveDate  string         `json:"curve_date" yaml:"curve_date"`
	Calendar   string         `json:"calendar,omitempty" yaml:"calendar"`
	DayCount   string         `json:"day_count,omitempty" yaml:"day_count"`
	Curve      curveJSON      `json:"curve" yaml:"curve"`
	Discount   *curveJSON     `json:"discount_curve,omitempty" yaml:"discount_curve"`
	Instrument instrumentJSON `json:"instrument" yaml:"instrument"`
	BumpBP     float64        `json:"bump_bp,omitempty" yaml:"bump_bp"`
}

type parallelJSON struct {
	SpreadSpread float64 `json:"dsds"`
	SpreadZero   float64 `json:"dsdz"`
	ZeroZero     float64 `json:"dzdz"`
}

type taskOutput struct {
	TaskID    string        `json:"task_id,omitempty"`
	CurveDate string        `json:"curve_date,omitempty"`
	Nodes     []string      `json:"nodes,omitempty"`
	PV        float64       `json:"pv"`
	DPdsds    [][]float64   `json:"dP_dsds,omitempty"`
	DPdsdz    [][]float64   `json:"dP_dsdz,omitempty"`
	DPdzdz    [][]float64   `json:"dP_dzdz,omitempty"`
	Parallel  *parallelJSON `json:"parallel,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crossgamma", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON or YAML input path (reads JSON from stdin if omitted)")
	precision := fs.Int("precision", -1, "Round reported figures to this many decimals (negative keeps full precision)")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: crossgamma [-input <path>] [-precision n] [-v]")
		fmt.Fprintln(stderr, "Compute spread/zero cross-gamma matrices for a cashflow instrument.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	logger := newLogger(stderr, *verbose)
	defer func() { _ = logger.Sync() }()

	path := strings.TrimSpace(*inputPath)
	raw, err := readInput(path, stdin)
	if err != nil {
		logger.Error("read input", zap.String("path", path), zap.Error(err))
		return writeError(stdout, fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw, isYAML(path))
	if err != nil {
		logger.Error("parse input", zap.String("path", path), zap.Error(err))
		return writeError(stdout, fmt.Sprintf("parse input: %v", err))
	}

	hadError := false
	outputs := make([]taskOutput, 0, len(inputs))
	for _, in := range inputs {
		start := time.Now()
		out, err := process(in, *precision)
		if err != nil {
			hadError = true
			logger.Error("cross gamma failed", zap.String("task_id", in.TaskID), zap.Error(err))
			outputs = append(outputs, taskOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		logger.Debug("cross gamma computed",
			zap.String("task_id", in.TaskID),
			zap.Int("nodes", len(out.Nodes)),
			zap.Duration("elapsed", time.Since(start)),
		)
		outputs = append(outputs, *out)
	}

	var b []byte
	if isArray {
		b, _ = json.Marshal(outputs)
	} else {
		b, _ = json.Marshal(outputs[0])
	}
	fmt.Fprintln(stdout, string(b))

	if hadError {
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel))
}

func process(in taskInput, precision int) (*taskOutput, error) {
	settlement, err := utils.ParseDate(in.CurveDate)
	if err != nil {
		return nil, fmt.Errorf("invalid curve_date: %v", err)
	}
	cal, err := calendar.Parse(in.Calendar)
	if err != nil {
		return nil, err
	}
	dayCount := in.DayCount
	if dayCount == "" {
		dayCount = utils.Act365F
	}
	if !utils.SupportedDayCount(dayCount) {
		return nil, fmt.Errorf("unsupported day_count %q", dayCount)
	}

	proj, err := curve.FromTenors(settlement, cal, in.Curve.ZeroRates, in.Curve.Spreads, dayCount)
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}
	disc := proj
	var discArg risk.Curve
	if in.Discount != nil {
		disc, err = curve.FromTenors(settlement, cal, in.Discount.ZeroRates, in.Discount.Spreads, dayCount)
		if err != nil {
			return nil, fmt.Errorf("discount_curve: %w", err)
		}
		discArg = disc
	}

	inst, err := buildInstrument(in.Instrument, cal, dayCount)
	if err != nil {
		return nil, fmt.Errorf("instrument: %w", err)
	}

	g := risk.NewGamma(risk.BumpRisker{Instrument: inst, BumpBP: in.BumpBP})
	res, err := g.CrossGamma(proj, discArg)
	if err != nil {
		return nil, err
	}

	nodes := make([]string, 0, disc.Len())
	for _, n := range disc.Nodes() {
		nodes = append(nodes, n.Date.Format(utils.DateLayout))
	}
	ss, sz, zz := res.Parallel()
	return &taskOutput{
		TaskID:    in.TaskID,
		CurveDate: in.CurveDate,
		Nodes:     nodes,
		PV:        round(inst.PV(proj, disc), precision),
		DPdsds:    roundMatrix(res.SpreadSpread, precision),
		DPdsdz:    roundMatrix(res.SpreadZero, precision),
		DPdzdz:    roundMatrix(res.ZeroZero, precision),
		Parallel: &parallelJSON{
			SpreadSpread: round(ss, precision),
			SpreadZero:   round(sz, precision),
			ZeroZero:     round(zz, precision),
		},
	}, nil
}

func buildInstrument(in instrumentJSON, cal calendar.CalendarID, dayCount string) (risk.Instrument, error) {
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case "cashflows", "":
		if len(in.Cashflows) == 0 {
			return nil, fmt.Errorf("cashflows are required")
		}
		cfs := make(bond.FixedCashflows, 0, len(in.Cashflows))
		for _, cf := range in.Cashflows {
			d, err := utils.ParseDate(cf.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid cashflow date: %v", err)
			}
			cfs = append(cfs, bond.Cashflow{Date: d, Coupon: cf.Coupon, Principal: cf.Principal})
		}
		return cfs, nil
	case "bond", "frn":
		effective, err := utils.ParseDate(in.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("invalid effective_date: %v", err)
		}
		maturity, err := utils.ParseDate(in.MaturityDate)
		if err != nil {
			return nil, fmt.Errorf("invalid maturity_date: %v", err)
		}
		if in.Notional == 0 {
			return nil, fmt.Errorf("notional is required")
		}
		if strings.EqualFold(in.Type, "bond") {
			return bond.FixedBond(in.Notional, in.CouponRate, effective, maturity, in.FrequencyMonths, cal, dayCount)
		}
		periods, err := bond.GenerateSchedule(effective, maturity, in.FrequencyMonths, cal, dayCount)
		if err != nil {
			return nil, err
		}
		return bond.FloatingNote{
			Notional:          in.Notional,
			MarginBP:          in.MarginBP,
			DayCount:          dayCount,
			Periods:           periods,
			ExchangePrincipal: in.ExchangePrincipal,
		}, nil
	default:
		return nil, fmt.Errorf("unknown instrument type %q", in.Type)
	}
}

func round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	return decimal.NewFromFloat(v).Round(int32(precision)).InexactFloat64()
}

func roundMatrix(m *mat.Dense, precision int) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = round(m.At(i, j), precision)
		}
	}
	return out
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func parseInputs(raw []byte, asYAML bool) ([]taskInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if asYAML {
		var inputs []taskInput
		if err := yaml.Unmarshal(trimmed, &inputs); err == nil {
			if len(inputs) == 0 {
				return nil, true, fmt.Errorf("empty input array")
			}
			return inputs, true, nil
		}
		var input taskInput
		if err := yaml.Unmarshal(trimmed, &input); err != nil {
			return nil, false, err
		}
		return []taskInput{input}, false, nil
	}
	if trimmed[0] == '[' {
		var inputs []taskInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input taskInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []taskInput{input}, false, nil
}

func writeError(w io.Writer, msg string) int {
	b, _ := json.Marshal(taskOutput{Error: msg})
	fmt.Fprintln(w, string(b))
	return 1
}
