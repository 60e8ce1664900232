package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
	"github.com/deemkeen/stegodon/middleware"
	"github.com/deemkeen/stegodon/util"
	"github.com/deemkeen/stegodon/web"
)

// App wires together the SSH TUI server, the HTTP/ActivityPub server, and
// the outbound delivery queue behind one lifecycle: Initialize builds
// everything, Start runs it until a signal arrives, Shutdown tears it down.
type App struct {
	config     *util.AppConfig
	sshServer  *ssh.Server
	httpServer *http.Server
	queue      *federation.Queue
	queueStop  chan struct{}
	apClient   *federation.Client
	done       chan os.Signal
}

func New(conf *util.AppConfig) (*App, error) {
	return &App{
		config:    conf,
		done:      make(chan os.Signal, 1),
		queueStop: make(chan struct{}),
	}, nil
}

// Initialize builds the SSH server, the HTTP router, and (when federation
// is enabled) the delivery queue, without starting any of them.
func (a *App) Initialize() error {
	sshKeyPath := util.ResolveFilePathWithSubdir(".ssh", "stegodonhostkey")
	log.Printf("using SSH host key at %s", sshKeyPath)

	sshServer, err := wish.NewServer(
		wish.WithAddress(fmt.Sprintf("%s:%d", a.config.Conf.Host, a.config.Conf.SshPort)),
		wish.WithHostKeyPath(sshKeyPath),
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithMiddleware(
			middleware.MainTui(),
			middleware.AuthMiddleware(a.config),
			logging.MiddlewareWithLogger(log.Default()),
		),
	)
	if err != nil {
		return fmt.Errorf("create SSH server: %w", err)
	}
	a.sshServer = sshServer

	router, err := web.Router(a.config)
	if err != nil {
		return fmt.Errorf("build HTTP router: %w", err)
	}
	a.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Conf.HttpPort),
		Handler: router,
	}

	if a.config.Conf.WithAp {
		limiter := federation.NewLimiter(
			a.config.Conf.RateLimitMaxRequests,
			time.Duration(a.config.Conf.RateLimitWindowSeconds)*time.Second,
			time.Duration(a.config.Conf.RateLimitCooldownSecs)*time.Second,
		)
		userAgent := "stegodon"
		if a.config.Conf.UserAgentSuffix != "" {
			userAgent = fmt.Sprintf("stegodon/%s", a.config.Conf.UserAgentSuffix)
		}
		a.apClient = federation.NewClient(&http.Client{Timeout: 30 * time.Second}, limiter, userAgent)
		a.queue = federation.NewQueue(db.GetDB(), a.deliver, a.config.Conf.MaxDeliveryAttempts)
	}

	return nil
}

// deliver satisfies federation.Sender: it resolves the signing account's
// keyID (its own actor URI) and hands the job to the transport client. The
// queue only threads the PEM string through, so the account is re-read here
// rather than carried on DeliveryQueueItem.
func (a *App) deliver(item *domain.DeliveryQueueItem, privateKeyPem string) error {
	privateKey, err := federation.ParsePrivateKey(privateKeyPem)
	if err != nil {
		return federation.NewError(federation.ErrKindFederation, fmt.Errorf("parse signing key: %w", err))
	}

	err, account := db.GetDB().ReadAccById(item.ActorId)
	if err != nil || account == nil {
		return federation.NewError(federation.ErrKindDatabase, fmt.Errorf("resolve signing account %s: %w", item.ActorId, err))
	}

	keyID := fmt.Sprintf("https://%s/users/%s#main-key", a.config.Conf.SslDomain, account.Username)
	return a.apClient.Deliver(item.InboxURI, []byte(item.ActivityJSON), privateKey, keyID)
}

func (a *App) Start() error {
	if a.queue != nil {
		go a.queue.Run(a.queueStop)
	}

	signal.Notify(a.done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("starting SSH server on %s:%d", a.config.Conf.Host, a.config.Conf.SshPort)
	go func() {
		if err := a.sshServer.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
			log.Fatalf("SSH server error: %v", err)
		}
	}()

	log.Printf("starting HTTP server on %s:%d", a.config.Conf.Host, a.config.Conf.HttpPort)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-a.done
	log.Println("shutdown signal received")
	return a.Shutdown()
}

func (a *App) Shutdown() error {
	log.Println("initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var shutdownErr error

	if a.queue != nil {
		close(a.queueStop)
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		shutdownErr = err
	} else {
		log.Println("HTTP server stopped")
	}

	if err := a.sshServer.Shutdown(ctx); err != nil {
		log.Printf("SSH server shutdown error: %v", err)
		if shutdownErr == nil {
			shutdownErr = err
		}
	} else {
		log.Println("SSH server stopped")
	}

	log.Println("all servers stopped")
	return shutdownErr
}
