package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/api"
	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/middleware"
	"github.com/pcfscope/server/settings"
	"github.com/pcfscope/server/watch"
	"github.com/pcfscope/server/ws"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		devMode bool
		showQR  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON-RPC websocket and HTTP API",
		Long: `Serve analyses to local clients. /ws speaks JSON-RPC 2.0 and pushes
analysis.updated notifications; /api exposes the stateless formatters.
Edits to the config file apply to analyses started afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, devMode, showQR)
		},
	}
	f := cmd.Flags()
	f.String("listen", "", "listen address (default :8080)")
	f.String("token", "", "bearer token required by clients (empty disables auth)")
	f.String("backend", "", "backend base URL")
	f.BoolVar(&devMode, "dev", false, "accept websocket connections from any origin")
	f.BoolVar(&showQR, "qr", true, "print a QR code of the server URL when attached to a terminal")
	return cmd
}

// newHandler builds the HTTP surface. The returned RPC handler must be
// stopped by the caller.
func newHandler(token string, cat *catalog.Catalog, manager *analysis.Manager, store *settings.Store, devMode bool) (http.Handler, *ws.RPCHandler) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	constants := api.NewConstantHandler(cat)
	mux.HandleFunc("GET /api/constants", constants.HandleList)
	mux.HandleFunc("GET /api/constants/{key}", constants.HandleGet)

	expressions := api.NewExpressionHandler(cat)
	mux.HandleFunc("POST /api/normalize", expressions.HandleNormalize)
	mux.HandleFunc("POST /api/fraction", expressions.HandleFraction)

	// websocket endpoint handles its own auth via the first RPC call
	rpcHandler := ws.NewRPCHandler(token, version, devMode, cat, manager, store)
	mux.Handle("GET /ws", rpcHandler)

	return middleware.Auth(token)(mux), rpcHandler
}

func (a *app) runServe(cmd *cobra.Command, devMode, showQR bool) error {
	s := a.settings
	store := settings.NewStore(s, a.configPath())

	manager := analysis.NewManager(func() analysis.Config {
		return analysis.ConfigFromSettings(store.Get(), a.catalog)
	}, s.SessionIdleTimeout)
	defer manager.Shutdown()

	handler, rpcHandler := newHandler(s.AuthToken, a.catalog, manager, store, devMode)
	defer rpcHandler.Stop()

	if path := a.configPath(); path != "" {
		cw := watch.NewConfigWatcher(path, store, func() (settings.Settings, error) {
			return settings.Load(a.viper)
		})
		if err := cw.Start(); err != nil {
			slog.Warn("config hot reload disabled", "file", path, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	ln, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.ListenAddr, err)
	}

	url := localURL(ln.Addr())
	slog.Info("server starting", "addr", ln.Addr().String(), "backend", s.BackendURL, "version", version)
	if s.AuthToken == "" {
		slog.Warn("auth disabled, any client on the network can start analyses")
	}
	if showQR && term.IsTerminal(int(os.Stdout.Fd())) {
		printQR(cmd.OutOrStdout(), url)
	}

	srv := &http.Server{Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown incomplete", "error", err)
	}
	return nil
}

// localURL turns a listener address into a URL another device on the
// network can open. Unspecified hosts are replaced by the first private
// IPv4 address.
func localURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String()
	}
	host := tcp.IP.String()
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		host = "localhost"
		if ip := lanIPv4(); ip != nil {
			host = ip.String()
		}
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(tcp.Port)))
}

func lanIPv4() net.IP {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil && ip.IsPrivate() {
			return ip
		}
	}
	return nil
}

func printQR(w io.Writer, url string) {
	fmt.Fprintln(w, titleStyle.Render("pcfscope server"))
	qrterminal.GenerateHalfBlock(url, qrterminal.L, w)
	fmt.Fprintln(w, labelStyle.Render("url:"), url)
}
