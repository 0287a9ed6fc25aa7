/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics/server"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
	"github.com/octopilot/secretmanager-controller/internal/backoff"
	"github.com/octopilot/secretmanager-controller/internal/config"
	"github.com/octopilot/secretmanager-controller/internal/controller"
	"github.com/octopilot/secretmanager-controller/internal/git"
	"github.com/octopilot/secretmanager-controller/internal/resolver"
)

var setupLog = ctrl.Log.WithName("setup")

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(clientgoscheme.Scheme))
	utilruntime.Must(smcv1alpha1.AddToScheme(clientgoscheme.Scheme))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		setupLog.Error(err, "invalid configuration")
		os.Exit(1)
	}

	ctrl.SetLogger(zap.New(zap.UseDevMode(cfg.LogFormat == "console"), zap.Level(logLevel(cfg.LogLevel))))

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 clientgoscheme.Scheme,
		Metrics:                server.Options{BindAddress: cfg.MetricsBindAddress},
		HealthProbeBindAddress: cfg.HealthProbeBindAddress,
		LeaderElection:         cfg.LeaderElect,
		LeaderElectionID:       "smc-controller-leader-election",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	ctx := ctrl.SetupSignalHandler()

	if cfg.GitHubApp.Enabled() {
		tokenFile, refresh, err := git.EnsureGitHubAppTokenFile(ctx, cfg.GitHubApp)
		if err != nil {
			setupLog.Error(err, "unable to mint initial GitHub App installation token")
			os.Exit(1)
		}
		os.Setenv("GIT_TOKEN_FILE", tokenFile)
		go refreshGitHubAppToken(ctx, refresh)
	}

	reconciler := &controller.SecretManagerConfigReconciler{
		Client:                  mgr.GetClient(),
		Scheme:                  mgr.GetScheme(),
		Recorder:                mgr.GetEventRecorderFor("secretmanagerconfig-controller"),
		Resolver:                resolver.New(mgr.GetClient(), cfg.CacheBasePath),
		Backoff:                 backoff.NewRegistry(cfg.BackoffMin, cfg.BackoffMax),
		SOPSKeySecretName:       cfg.SOPSKeySecretName,
		SOPSKeyNamespace:        cfg.SOPSKeyNamespace,
		MaxConcurrentReconciles: cfg.MaxConcurrentReconciles,
	}
	if err := reconciler.SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "SecretManagerConfig")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctx); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}

// refreshGitHubAppToken re-mints the installation token well inside its
// one-hour expiry (§10.3) and logs, rather than exits, on a failed refresh —
// the previous token stays on disk and NativeGitClient's next clone retries
// against it, so a transient GitHub outage does not take the manager down.
func refreshGitHubAppToken(ctx context.Context, refresh func(context.Context) error) {
	ticker := time.NewTicker(45 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := refresh(ctx); err != nil {
				setupLog.Error(err, "failed to refresh GitHub App installation token")
			}
		}
	}
}

func logLevel(level string) zap.LevelEnabler {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
