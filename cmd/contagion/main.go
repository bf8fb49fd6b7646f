// contagion is the command-line front end for the contagion engine:
// run cascades and criticality rankings over scenario files, and
// generate synthetic scenarios to experiment with.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/cascadelab/contagion/pkg/contagion"
	"github.com/cascadelab/contagion/pkg/export"
	"github.com/cascadelab/contagion/pkg/generator"
	"github.com/cascadelab/contagion/pkg/logging"
	"github.com/cascadelab/contagion/pkg/scenario"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "cascade":
		err = runCascade(os.Args[2:])
	case "criticality":
		err = runCriticality(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "contagion: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: contagion <command> [flags]

Commands:
  cascade      run a failure cascade over a scenario file
  criticality  rank entities by the damage their failure causes
  generate     generate a synthetic scenario file`)
}

func runCascade(args []string) error {
	fs := flag.NewFlagSet("cascade", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "scenario YAML file (required)")
	trace := fs.Bool("trace", false, "print the step-by-step propagation trace")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	archivePath := fs.String("out", "", "write a compressed result archive to this path")
	fs.Parse(args)

	if *scenarioPath == "" {
		return fmt.Errorf("cascade: -scenario is required")
	}

	s, err := scenario.Load(*scenarioPath)
	if err != nil {
		return err
	}

	net, err := s.Network()
	if err != nil {
		return err
	}

	result, err := contagion.Cascade(net, s.InitialFailed, s.CascadeOptions())
	if err != nil {
		return err
	}

	logging.DefaultLogger().Info("cascade complete",
		logging.Scenario(s.Name),
		logging.Entities(net.EntityCount()),
		logging.Steps(len(result.Steps)),
		logging.FailedEntities(len(result.Failed)),
	)

	if *archivePath != "" {
		archive := export.NewCascadeArchive(result)
		if err := export.WriteFile(*archivePath, archive); err != nil {
			return err
		}
		fmt.Printf("archive written to %s (run %s)\n", *archivePath, archive.RunID)
	}

	if *asJSON {
		return export.WriteJSON(os.Stdout, result)
	}

	printCascade(s.Name, result, *trace)
	return nil
}

func runCriticality(args []string) error {
	fs := flag.NewFlagSet("criticality", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "scenario YAML file (required)")
	topK := fs.Int("top", 0, "report only the K highest-impact entities")
	workers := fs.Int("workers", 1, "concurrent cascade runs")
	asJSON := fs.Bool("json", false, "print the full report as JSON")
	archivePath := fs.String("out", "", "write a compressed report archive to this path")
	fs.Parse(args)

	if *scenarioPath == "" {
		return fmt.Errorf("criticality: -scenario is required")
	}

	s, err := scenario.Load(*scenarioPath)
	if err != nil {
		return err
	}

	net, err := s.Network()
	if err != nil {
		return err
	}

	report, err := contagion.RankCriticality(net, contagion.CriticalityOptions{
		TopK:     *topK,
		Workers:  *workers,
		MaxSteps: s.MaxSteps,
	})
	if err != nil {
		return err
	}

	if *archivePath != "" {
		archive := export.NewCriticalityArchive(report)
		if err := export.WriteFile(*archivePath, archive); err != nil {
			return err
		}
		fmt.Printf("archive written to %s (run %s)\n", *archivePath, archive.RunID)
	}

	if *asJSON {
		return export.WriteJSON(os.Stdout, report)
	}

	printCriticality(s.Name, report)
	return nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	entities := fs.Int("entities", 20, "total entity count")
	coreSize := fs.Int("core", 4, "densely coupled core size")
	seed := fs.Int64("seed", 1, "generation seed")
	outPath := fs.String("out", "", "write the scenario YAML here instead of stdout")
	fs.Parse(args)

	opts := generator.DefaultOptions()
	opts.Entities = *entities
	opts.CoreSize = *coreSize
	opts.Seed = *seed

	net, err := generator.Generate(opts)
	if err != nil {
		return err
	}

	s := scenario.Scenario{
		Name:        fmt.Sprintf("generated-%d", *seed),
		Description: fmt.Sprintf("synthetic core-periphery network, %d entities, seed %d", *entities, *seed),
	}
	for _, id := range net.EntityIDs() {
		e, _ := net.Entity(id)
		s.Entities = append(s.Entities, scenario.EntitySpec{
			ID:      e.ID,
			Name:    e.Name,
			Capital: e.Capital,
			Buffer:  e.Buffer,
		})
	}
	for _, ob := range net.Obligations() {
		s.Obligations = append(s.Obligations, scenario.ObligationSpec{
			From:   ob.From,
			To:     ob.To,
			Amount: ob.Amount,
		})
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("generate: marshal scenario: %w", err)
	}

	if *outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		return fmt.Errorf("generate: write %s: %w", *outPath, err)
	}
	fmt.Printf("scenario written to %s (%d entities, %d obligations)\n",
		*outPath, net.EntityCount(), net.ObligationCount())
	return nil
}

func printCascade(name string, result *contagion.CascadeResult, trace bool) {
	fmt.Printf("Scenario: %s\n", name)
	fmt.Printf("Failed %d of %d entities in %d steps\n\n",
		len(result.Failed), len(result.Entities), len(result.Steps))

	if trace {
		for _, step := range result.Steps {
			if len(step.Failed) == 0 {
				fmt.Printf("step %d: no new failures, fixed point confirmed\n", step.Step)
				continue
			}
			fmt.Printf("step %d: %v failed\n", step.Step, step.Failed)
		}
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tFAILED AT STEP")
	for _, e := range result.Entities {
		state := "failed"
		failedAt := "-"
		if e.Alive {
			state = "alive"
		} else if e.FailedStep >= 0 {
			failedAt = fmt.Sprintf("%d", e.FailedStep)
		} else {
			failedAt = "initial"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Name, state, failedAt)
	}
	w.Flush()
}

func printCriticality(name string, report *contagion.CriticalityReport) {
	fmt.Printf("Scenario: %s (%d cascade runs)\n\n", name, report.Runs)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tID\tIMPACT")
	for i, impact := range report.Impacts {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, impact.ID, impact.Impact)
	}
	w.Flush()
}
