package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rates-updater/internal/dispatch"
	"rates-updater/internal/dispatch/api"
	"rates-updater/internal/logger"
	"rates-updater/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Written by the exchange office software into the working directory.
const ratesFile = "KURWAL.PHP"

var (
	version    string
	configFile = ".ini"
	envFile    = ".env"
)

type Service struct {
	log     *logrus.Logger
	sender  dispatch.Sender
	metrics *metrics.UpdaterMetrics

	RatesFile      string
	CheckInterval  time.Duration
	RetryDelay     time.Duration
	MaxReadErrors  int
	TimeoutRequest time.Duration
	MetricsListen  string

	stat     func(name string) (os.FileInfo, error)
	readFile func(name string) ([]byte, error)
	sleep    func(ctx context.Context, d time.Duration) bool
	now      func() time.Time
}

func Version() {
	fmt.Print("Version=", version)
}

// New reads the optional ini file and the .env file and prepares the service.
// API_URL is required; everything else has a default.
func New() (*Service, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:                    true,
		SpaceBeforeInlineComment: true,
	}, configFile)
	if err != nil {
		return nil, fmt.Errorf("load config files:%s", err)
	}
	cfg.NameMapper = ini.TitleUnderscore
	cfgLog := logger.DefaultConfig()
	if err := cfg.Section("logger").MapTo(cfgLog); err != nil {
		return nil, fmt.Errorf("mapping logger config:%s", err)
	}
	log := logger.New(cfgLog)

	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("load %s: %s - using process environment", envFile, err)
	}
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		return nil, errors.New("API_URL is not set")
	}
	secret := os.Getenv("UPDATER_SECRET")
	if secret == "" {
		log.Warn("UPDATER_SECRET is not set, requests will be sent with an empty secret")
	}

	timeoutRequest := time.Duration(cfg.Section("service").Key("timeout_request").MustInt64(30)) * time.Second

	s := newService(log, api.New(apiURL, secret, timeoutRequest), metrics.New(nil))
	s.CheckInterval = time.Duration(cfg.Section("service").Key("check_interval").MustInt64(10)) * time.Second
	s.RetryDelay = time.Duration(cfg.Section("service").Key("retry_delay").MustInt64(1)) * time.Second
	s.MaxReadErrors = cfg.Section("service").Key("max_read_errors").MustInt(5)
	s.TimeoutRequest = timeoutRequest
	s.MetricsListen = cfg.Section("metrics").Key("listen").String()
	return s, nil
}

func newService(log *logrus.Logger, sender dispatch.Sender, m *metrics.UpdaterMetrics) *Service {
	return &Service{
		log:           log,
		sender:        sender,
		metrics:       m,
		RatesFile:     ratesFile,
		CheckInterval: 10 * time.Second,
		RetryDelay:    time.Second,
		MaxReadErrors: 5,
		stat:          os.Stat,
		readFile:      os.ReadFile,
		sleep:         sleepCtx,
		now:           time.Now,
	}
}

// Start runs the poll loop until it gives up on the rates file or the
// process receives a termination signal.
func (s *Service) Start() {
	s.log.Infof("***********************SERVICE [%s] START***********************", version)
	mainCtx, globCancel := context.WithCancel(context.Background())
	defer globCancel()
	s.log.Infof("check interval [%s], retry delay [%s], max read errors [%d], request timeout [%s]",
		s.CheckInterval, s.RetryDelay, s.MaxReadErrors, s.TimeoutRequest)

	var metricsSrv *http.Server
	if s.MetricsListen != "" {
		srv, err := s.startMetrics()
		if err != nil {
			s.log.Errorln("metrics server:", err)
		} else {
			metricsSrv = srv
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Run(mainCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case q := <-quit:
		s.log.Infof("received signal: %v", q)
		globCancel()
		<-done
	case err := <-done:
		s.log.Errorln("poll loop stopped:", err)
	}

	if metricsSrv != nil {
		s.stopMetrics(metricsSrv)
	}
	s.log.Info("***********************SERVICE STOP************************")
}

// startMetrics binds the metrics listener and serves it in the background.
func (s *Service) startMetrics() (*http.Server, error) {
	ln, err := net.Listen("tcp", s.MetricsListen)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.MetricsListen, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Infof("metrics listening on %s", srv.Addr)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorln("metrics server:", err)
		}
	}()
	return srv, nil
}

func (s *Service) stopMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.log.Errorln("metrics server shutdown:", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
