package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/olehluchkiv/epwizard/internal/codegen"
	"github.com/olehluchkiv/epwizard/internal/deps"
	"github.com/olehluchkiv/epwizard/internal/diagram"
	"github.com/olehluchkiv/epwizard/internal/metrics"
	"github.com/olehluchkiv/epwizard/internal/project"
	"github.com/olehluchkiv/epwizard/internal/server"
	"github.com/olehluchkiv/epwizard/internal/targets"
	"github.com/olehluchkiv/epwizard/internal/tui"
	"github.com/olehluchkiv/epwizard/internal/wizard"
	"github.com/spf13/cobra"
)

// projectFlags registers the flags shared by commands that write to a
// project.
func projectFlags(cmd *cobra.Command) {
	cmd.Flags().String("target-interface", "RouteBuilder", "interface a type must implement to be offered as a target")
	cmd.Flags().String("endpoints-file", codegen.DefaultFileName, "endpoints file, relative to the project root")
}

func projectArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// newController wires the wizard to the project-facing collaborators.
func (a *app) newController(observer wizard.Observer, install bool) (*wizard.Controller, error) {
	client, err := a.catalogClient()
	if err != nil {
		return nil, err
	}
	topts := targets.DefaultOptions()
	topts.Interface = a.cfg.Wizard.TargetInterface

	cfg := wizard.Config{
		Catalog:          client,
		Targets:          targets.NewEnumerator(topts, a.logger),
		Sink:             codegen.NewFileSink(client, a.cfg.Output.EndpointsFile, a.logger),
		Observer:         observer,
		MaxFieldsPerPage: a.cfg.Wizard.MaxFieldsPerPage,
	}
	if install {
		cfg.Installer = deps.NewGoModInstaller(client, a.logger)
	}
	return wizard.NewController(cfg, a.logger)
}

func newAddEndpointCmd(a *app) *cobra.Command {
	var noInstall bool
	cmd := &cobra.Command{
		Use:         "add-endpoint [project-dir]",
		Short:       "Interactively add an endpoint to a project",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{fileOnlyLogging: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Resolve(projectArg(args), a.logger)
			if err != nil {
				return err
			}
			ctrl, err := a.newController(nil, !noInstall)
			if err != nil {
				return err
			}
			endpoints := codegen.NewFileSink(nil, a.cfg.Output.EndpointsFile, a.logger).Path(proj.Root)

			res, err := tui.Run(cmd.Context(), ctrl, proj.Root)
			if err != nil {
				return err
			}
			if !res.Committed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			s := res.Session
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s endpoint %q to %s\n",
				s.ComponentName, s.InstanceName, endpoints)
			return nil
		},
	}
	projectFlags(cmd)
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "do not add the component module to go.mod")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var noInstall bool
	cmd := &cobra.Command{
		Use:   "serve [project-dir]",
		Short: "Serve wizard sessions over an HTTP JSON API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Resolve(projectArg(args), a.logger)
			if err != nil {
				return err
			}
			m := metrics.New(metrics.DefaultNamespace)
			ctrl, err := a.newController(m, !noInstall)
			if err != nil {
				return err
			}
			srv := server.New(ctrl, m, proj.Root, a.logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on http://localhost:%d\n", a.cfg.Server.Port)
			return server.Serve(cmd.Context(), srv.Handler(), a.cfg.Server.Port, a.logger)
		},
	}
	projectFlags(cmd)
	cmd.Flags().Int("port", 8080, "HTTP server port")
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "do not add component modules to go.mod")
	return cmd
}

func newComponentsCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List catalog components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.catalogClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if filter == "" {
				filters, err := client.Filters(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Filters: %s\n\n", strings.Join(filters, ", "))
			}
			names, err := client.ComponentNames(ctx, filter)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, client.Description(ctx, name))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only list components with this label")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		endpointType string
		format       string
		output       string
	)
	cmd := &cobra.Command{
		Use:   "plan <component>",
		Short: "Show the pages the wizard would display for a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.newController(nil, false)
			if err != nil {
				return err
			}
			steps, resolved, err := ctrl.Preview(cmd.Context(), args[0], endpointType)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return fmt.Errorf("%s: not in the catalog", args[0])
				}
				return err
			}
			plan := diagram.Plan{
				Component:        args[0],
				EndpointType:     resolved,
				MaxFieldsPerPage: ctrl.MaxFieldsPerPage(),
				Steps:            steps,
			}

			opts := diagram.DefaultDiagramOptions()
			opts.IncludeInit = output != ""
			var out string
			switch format {
			case "text":
				out = diagram.GenerateText(plan)
			case "mermaid":
				out = diagram.GenerateMermaid(plan, opts) + "\n"
			case "slides":
				var b strings.Builder
				for _, s := range diagram.BuildSlides(plan, opts, diagram.DefaultSlideOptions()) {
					fmt.Fprintf(&b, "## %s\n\n```mermaid\n%s\n```\n\n", s.Title, s.Mermaid)
				}
				out = b.String()
			default:
				return fmt.Errorf("unknown format %q (valid: text, mermaid, slides)", format)
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote plan to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&endpointType, "endpoint-type", "", "Consumer, Producer or <any> (default: the component's default)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, mermaid or slides")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan to a file instead of stdout")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "epwizard %s\n", version)
		},
	}
}
