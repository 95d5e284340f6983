package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/afedynitch/nuVeto/internal/cascade"
	"github.com/afedynitch/nuVeto/internal/config"
	"github.com/afedynitch/nuVeto/internal/crflux"
	"github.com/afedynitch/nuVeto/internal/numerics"
	"github.com/afedynitch/nuVeto/internal/prpl"
	"github.com/afedynitch/nuVeto/internal/veto"
)

var (
	configFile string
	verbose    bool
	bundle     string
	promptHist string

	enu      float64
	cosTheta float64
	kind     string
	pmodel   string
	hadr     string
	prplName string
	accuracy int
	corrOnly bool
	raw      bool

	// scan
	emin    float64
	emax    float64
	points  int
	csvOut  string
	jsonOut string
	live    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nuveto",
		Short: "atmospheric neutrino self-veto passing fractions",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&bundle, "bundle", "", "cascade solution bundle (json)")
	rootCmd.PersistentFlags().StringVar(&promptHist, "prompt-hist", "", "prompt decay histogram (json)")

	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "passing fraction for one energy and zenith",
		RunE:  runRate,
	}
	addRunFlags(rateCmd)
	rateCmd.Flags().BoolVar(&raw, "raw", false, "report the passed flux instead of the fraction")

	fluxCmd := &cobra.Command{
		Use:   "flux",
		Short: "total (unvetoed) flux for one energy and zenith",
		RunE:  runFlux,
	}
	addRunFlags(fluxCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "passing fraction over an energy grid",
		RunE:  runScan,
	}
	addRunFlags(scanCmd)
	scanCmd.Flags().Float64Var(&emin, "emin", 1e3, "lowest neutrino energy (GeV)")
	scanCmd.Flags().Float64Var(&emax, "emax", 1e7, "highest neutrino energy (GeV)")
	scanCmd.Flags().IntVar(&points, "points", 20, "log-spaced sample count")
	scanCmd.Flags().StringVar(&csvOut, "csv", "", "write samples to a CSV file")
	scanCmd.Flags().StringVar(&jsonOut, "json", "", "write samples to a JSON file")
	scanCmd.Flags().BoolVar(&live, "live", false, "interactive live view")

	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "list flux kinds and their parent species",
		RunE:  listChannels,
	}

	configCmd := &cobra.Command{
		Use:   "config init [path]",
		Short: "write a default config file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "nuveto.yaml"
			if len(args) == 2 {
				path = args[1]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(rateCmd, fluxCmd, scanCmd, channelsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&enu, "enu", 1e3, "neutrino energy (GeV)")
	cmd.Flags().Float64Var(&cosTheta, "cos-theta", 1.0, "zenith cosine in the detector frame")
	cmd.Flags().StringVar(&kind, "kind", "conv_numu", "flux kind (conv|pr)_(numu|antinumu|nue|antinue)")
	cmd.Flags().StringVar(&pmodel, "pmodel", config.DefaultPmodel, "primary flux model (H3a, H4a)")
	cmd.Flags().StringVar(&hadr, "hadr", config.DefaultHadr, "hadronic interaction model")
	cmd.Flags().StringVar(&prplName, "prpl", config.DefaultPrpl, "muon reach model")
	cmd.Flags().IntVar(&accuracy, "accuracy", config.DefaultAccuracy, "sampling accuracy")
	cmd.Flags().BoolVar(&corrOnly, "corr-only", false, "correlated-only approximation")
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// setup merges the config file with flags and builds the service. CLI
// flags override file values.
func setup(cmd *cobra.Command) (*veto.Service, crflux.Model, *zap.Logger, error) {
	log := newLogger()

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if bundle == "" {
		bundle = cfg.Data.Bundle
	}
	if promptHist == "" {
		promptHist = cfg.Data.PromptHist
	}
	if !cmd.Flags().Changed("pmodel") {
		pmodel = cfg.Models.Pmodel
	}
	if !cmd.Flags().Changed("hadr") {
		hadr = cfg.Models.Hadr
	}
	if !cmd.Flags().Changed("prpl") {
		prplName = cfg.Models.Prpl
	}
	if !cmd.Flags().Changed("accuracy") && cfg.Models.Accuracy > 0 {
		accuracy = cfg.Models.Accuracy
	}

	for _, path := range cfg.Data.PrplTables {
		if _, err := prpl.Load(path); err != nil {
			return nil, nil, nil, err
		}
	}

	pm, err := crflux.Parse(pmodel)
	if err != nil {
		return nil, nil, nil, err
	}

	if bundle == "" {
		return nil, nil, nil, fmt.Errorf("a cascade solution bundle is required (--bundle or config data.bundle)")
	}
	factory := func(hadrName string, _ crflux.Model, thetaDeg float64) (cascade.Solver, error) {
		b, err := cascade.Open(bundle, log)
		if err != nil {
			return nil, err
		}
		if b.HadronicModel() != "" && b.HadronicModel() != hadrName {
			log.Warn("bundle hadronic model differs from request",
				zap.String("bundle", b.HadronicModel()),
				zap.String("requested", hadrName))
		}
		if dt := math.Abs(b.ThetaDeg() - thetaDeg); dt > 0.5 {
			log.Warn("bundle zenith angle differs from request",
				zap.Float64("bundle_deg", b.ThetaDeg()),
				zap.Float64("requested_deg", thetaDeg))
		}
		return b, nil
	}

	opts := []veto.ServiceOption{
		veto.WithDetector(cfg.Detector.Depth, cfg.Detector.Elevation),
		veto.WithCacheSizes(cfg.Cache.NoMu, cfg.Cache.Solutions),
		veto.WithLogger(log),
	}
	if promptHist != "" {
		hist, err := veto.LoadPromptHist(promptHist)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, veto.WithPromptHist(hist))
	}
	return veto.NewService(factory, opts...), pm, log, nil
}

func runOpts() veto.RunOpts {
	return veto.RunOpts{Accuracy: accuracy, Prpl: prplName, CorrOnly: corrOnly, Raw: raw}
}

func runRate(cmd *cobra.Command, args []string) error {
	svc, pm, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	start := time.Now()
	rate, err := svc.PassingRate(enu, cosTheta, kind, pm, hadr, runOpts())
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("passing fraction"))
	printKV("kind", kind)
	printKV("enu", fmt.Sprintf("%.4g GeV", enu))
	printKV("cos_theta", fmt.Sprintf("%.3f", cosTheta))
	printKV("rate", fmt.Sprintf("%.6g", rate))
	printKV("elapsed", time.Since(start).String())
	return nil
}

func runFlux(cmd *cobra.Command, args []string) error {
	svc, pm, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	total, err := svc.TotalFlux(enu, cosTheta, kind, pm, hadr, runOpts())
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("total flux"))
	printKV("kind", kind)
	printKV("enu", fmt.Sprintf("%.4g GeV", enu))
	printKV("flux", fmt.Sprintf("%.6g 1/(cm^2 s sr GeV)", total))
	return nil
}

type scanSample struct {
	Enu  float64 `json:"enu"`
	Rate float64 `json:"rate"`
}

func runScan(cmd *cobra.Command, args []string) error {
	svc, pm, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	energies := numerics.Logspace(math.Log10(emin), math.Log10(emax), points)
	if live {
		return runLiveScan(svc, pm, energies)
	}

	samples := make([]scanSample, 0, len(energies))
	rates := make([]float64, 0, len(energies))
	for _, en := range energies {
		rate, err := svc.PassingRate(en, cosTheta, kind, pm, hadr, runOpts())
		if err != nil {
			return err
		}
		samples = append(samples, scanSample{Enu: en, Rate: rate})
		rates = append(rates, rate)
	}

	graph := asciigraph.Plot(rates,
		asciigraph.Height(12),
		asciigraph.Width(64),
		asciigraph.Caption(fmt.Sprintf("%s passing fraction, log10(E/GeV) %.1f..%.1f",
			kind, math.Log10(emin), math.Log10(emax))))
	fmt.Println(panelStyle.Render(graph))

	if csvOut != "" {
		if err := writeScanCSV(csvOut, samples); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
	}
	if jsonOut != "" {
		data, err := json.MarshalIndent(samples, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(jsonOut, data, 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	return nil
}

func writeScanCSV(path string, samples []scanSample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"enu_gev", "passing_rate"}); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{
			strconv.FormatFloat(s.Enu, 'g', -1, 64),
			strconv.FormatFloat(s.Rate, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func runLiveScan(svc *veto.Service, pm crflux.Model, energies []float64) error {
	m := newScanModel(svc, pm, energies)
	_, err := tea.NewProgram(m).Run()
	return err
}

func listChannels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tCATEGORY\tDAUGHTER\tMOTHERS")
	for _, categ := range []string{"conv", "pr"} {
		for _, d := range []string{"numu", "antinumu", "nue", "antinue"} {
			k, err := veto.ParseKind(categ + "_" + d)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", k, k.Category, d, k.Mothers())
		}
	}
	return w.Flush()
}

func printKV(label, value string) {
	fmt.Printf("  %s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}
