// draw-a-ui — sketch a wireframe, get back a Tailwind HTML page.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/RealityMoez/draw-a-ui/internal/client"
	"github.com/RealityMoez/draw-a-ui/internal/config"
	"github.com/RealityMoez/draw-a-ui/internal/models"
	"github.com/RealityMoez/draw-a-ui/internal/openai"
	"github.com/RealityMoez/draw-a-ui/internal/preview"
	"github.com/RealityMoez/draw-a-ui/internal/server"
	"github.com/RealityMoez/draw-a-ui/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

func printBanner(mode string) {
	fmt.Printf("\n  ► draw-a-ui %s  |  Mode: %s\n\n", version, mode)
}

func main() {
	root := &cobra.Command{
		Use:   "draw-a-ui",
		Short: "draw-a-ui — turn wireframe sketches into HTML with a vision model",
		Long: `draw-a-ui serves a sketch canvas and relays snapshots of it to an
OpenAI-compatible vision model, which answers with a single Tailwind HTML file.`,
		SilenceUsage: true,
	}

	root.AddCommand(serverCmd(), makeRealCmd(), keyCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// ── server subcommand ─────────────────────────────────────────────────────────

func serverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the proxy server and sketch UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("SERVER")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				cfg.Port = port
			}

			server.SetFallbackKey(cfg.OpenAIAPIKey)
			completer := openai.NewClient(cfg.OpenAIBaseURL, cfg.Model, cfg.MaxTokens, cfg.Timeout())

			gin.SetMode(gin.ReleaseMode)
			engine := gin.New()
			engine.Use(gin.Logger(), gin.Recovery())
			server.RegisterRoutes(engine, completer)
			server.RegisterStaticFiles(engine)

			addr := cfg.ListenAddr()
			fmt.Printf("  ✓ Sketch UI + API → http://%s\n", addr)
			fmt.Printf("  ✓ Upstream        → %s%s (%s)\n", completer.BaseURL, openai.CompletionsPath, cfg.Model)
			if cfg.OpenAIAPIKey != "" {
				fmt.Printf("  ✓ Fallback key    → set\n\n")
			} else {
				fmt.Printf("  ✓ Fallback key    → none (cookie required)\n\n")
			}

			srv := &http.Server{Addr: addr, Handler: engine}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt)

			select {
			case err := <-errCh:
				return err
			case <-quit:
				fmt.Println("\n  → Shutting down gracefully…")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides config)")
	return cmd
}

// ── make-real subcommand ──────────────────────────────────────────────────────

func makeRealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make-real <snapshot.png|->",
		Short: "Send a rendered wireframe to the proxy and preview the generated HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if proxy, _ := cmd.Flags().GetString("proxy"); proxy != "" {
				cfg.ProxyURL = proxy
			}
			out, _ := cmd.Flags().GetString("out")
			printOnly, _ := cmd.Flags().GetBool("print")

			jar, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer jar.Close()

			presenter := &capture{}
			orch := &client.Orchestrator{
				ProxyURL:  cfg.ProxyURL,
				HTTP:      &http.Client{},
				Cookies:   jar,
				Prompter:  client.TerminalPrompter{In: os.Stdin, Out: os.Stderr},
				Notifier:  client.TerminalNotifier{Out: os.Stderr},
				Canvas:    client.FileSnapshot{Path: args[0]},
				Presenter: presenter,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			html, err := orch.MakeReal(ctx)
			switch {
			case errors.Is(err, client.ErrMissingCredential), errors.Is(err, client.ErrEmptyCanvas):
				fmt.Fprintf(os.Stderr, "  → %v, nothing sent\n", err)
				return nil
			case err != nil:
				return err
			}

			if out != "" {
				if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}
				fmt.Fprintf(os.Stderr, "  ✓ Wrote %d bytes to %s\n", len(html), out)
			}
			if printOnly {
				fmt.Println(preview.Highlight(presenter.html))
				return nil
			}
			if out == "" {
				return preview.Run(presenter.html)
			}
			return nil
		},
	}
	cmd.Flags().String("proxy", "", "Proxy base URL (overrides proxy_url)")
	cmd.Flags().StringP("out", "o", "", "Write the extracted HTML to this file")
	cmd.Flags().Bool("print", false, "Print highlighted HTML instead of opening the preview")
	return cmd
}

// capture holds the markup handed over by the orchestrator until the
// terminal is free to show it.
type capture struct{ html string }

func (c *capture) Show(html string) { c.html = html }

// ── key subcommand ────────────────────────────────────────────────────────────

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key stored in the local cookie jar",
	}

	withJar := func(fn func(*store.CookieJar) error) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		jar, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer jar.Close()
		return fn(jar)
	}

	set := &cobra.Command{
		Use:   "set [key]",
		Short: "Store an API key (prompts when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJar(func(jar *store.CookieJar) error {
				key := ""
				if len(args) == 1 {
					key = args[0]
				} else {
					p := client.TerminalPrompter{In: os.Stdin, Out: os.Stderr}
					answer, err := p.Prompt(cmd.Context(), client.KeyPrompt)
					if err != nil {
						return err
					}
					key = answer
				}
				if key == "" {
					return client.ErrMissingCredential
				}
				if err := jar.Set(models.CredentialCookie, key); err != nil {
					return err
				}
				fmt.Println("  ✓ API key stored")
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJar(func(jar *store.CookieJar) error {
				if err := jar.Clear(models.CredentialCookie); err != nil {
					return err
				}
				fmt.Println("  ✓ API key cleared")
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show whether an API key is stored (masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJar(func(jar *store.CookieJar) error {
				key, err := jar.Get(models.CredentialCookie)
				if err != nil {
					return err
				}
				fmt.Println(maskKey(key))
				return nil
			})
		},
	}

	cmd.AddCommand(set, clearCmd, show)
	return cmd
}

// maskKey keeps the first and last four characters of a key.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return "********"
	default:
		return key[:4] + "…" + key[len(key)-4:]
	}
}

// ── version subcommand ────────────────────────────────────────────────────────

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print draw-a-ui version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("draw-a-ui %s\n", version)
		},
	}
}
