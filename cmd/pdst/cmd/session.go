package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aweris/pdst"
	"github.com/aweris/pdst/internal/compression"
	"github.com/aweris/pdst/internal/display"
	"github.com/aweris/pdst/internal/log"
	"github.com/aweris/pdst/internal/prompt"
	"github.com/aweris/pdst/internal/remote"
)

const (
	backendHTTP = "http"
	backendOCI  = "oci"
)

// session is one configured orchestrator plus the resources behind it.
type session struct {
	orchestrator *pdst.Orchestrator
	printer      *display.Printer
	prompt       *prompt.Line
	compressor   *compression.Compressor
}

func newSession(cmd *cobra.Command) (*session, error) {
	s := &session{
		printer: display.New(cmd.OutOrStdout()),
		prompt:  prompt.NewLine(cmd.InOrStdin(), cmd.OutOrStdout()),
	}

	custody, err := s.newRemote(viper.GetViper())
	if err != nil {
		return nil, err
	}

	o, err := pdst.New(custody,
		pdst.WithWorkDir(viper.GetString("work_dir")),
		pdst.WithConcurrency(viper.GetInt("concurrency")),
		pdst.WithOutput(cmd.OutOrStdout()),
		pdst.WithPrompter(s.prompt),
		pdst.WithLogger(log.Named("custody")),
	)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.orchestrator = o
	return s, nil
}

func (s *session) newRemote(v *viper.Viper) (remote.Custody, error) {
	timeout := v.GetDuration("timeout")

	switch backend := v.GetString("backend"); backend {
	case backendHTTP, "":
		c, err := compression.NewCompressor(0, v.GetBool("compress"))
		if err != nil {
			return nil, fmt.Errorf("create compressor: %w", err)
		}
		s.compressor = c
		return remote.NewHTTP(v.GetString("server"),
			remote.WithTimeout(timeout),
			remote.WithCompressor(c),
			remote.WithLogger(log.Named("http")),
		)

	case backendOCI:
		repo := v.GetString("oci.repository")
		if repo == "" {
			return nil, fmt.Errorf("backend %q requires oci.repository", backend)
		}
		opts := []remote.OCIOption{
			remote.WithOCITimeout(timeout),
			remote.WithConcurrency(v.GetInt("concurrency")),
			remote.WithOCILogger(log.Named("oci")),
		}
		if v.GetBool("oci.insecure") {
			opts = append(opts, remote.WithInsecure())
		}
		if user := v.GetString("oci.username"); user != "" {
			opts = append(opts, remote.WithAuthenticator(remote.StaticAuthenticator{
				Username: user,
				Password: v.GetString("oci.password"),
			}))
		}
		return remote.NewOCI(repo, opts...)

	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, backendHTTP, backendOCI)
	}
}

// run executes op and prints its outcome. Failed outcomes return errFailed.
func (s *session) run(cmd *cobra.Command, op pdst.Operation) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := s.orchestrator.Execute(ctx, op)
	report(s.printer, out)
	if out.Kind == pdst.Failed {
		return errFailed
	}
	return nil
}

func (s *session) Close() {
	if s.compressor != nil {
		if err := s.compressor.Close(); err != nil {
			log.L().Debug("close compressor", zap.Error(err))
		}
	}
}

func report(p *display.Printer, out pdst.Outcome) {
	switch {
	case out.Kind == pdst.Failed:
		p.Box(display.ToneFailure, fmt.Sprintf("%s: %s", out.ErrorKind(), out.Message))
	case out.Kind == pdst.Aborted:
		p.Box(display.ToneFailure, out.Message)
	case out.Advisory:
		p.Box(display.ToneAdvisory, out.Message)
	default:
		p.Box(display.ToneSuccess, out.Message)
	}
}

// runOp is the RunE body shared by every operation command.
func runOp(cmd *cobra.Command, op pdst.Operation) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.run(cmd, op)
}

// firstArg returns args[0] or "".
func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

