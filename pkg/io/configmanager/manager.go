// Package configmanager loads mbservctl service configuration.
//
// Configuration priority: defaults < mbservctl.yaml < MBSERVCTL_* environment
// variables < command-line flags.
package configmanager

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	v1alpha1 "github.com/sourceperl/mbservctl/pkg/apis/service/v1alpha1"
	"github.com/sourceperl/mbservctl/pkg/ui/notify"
	"github.com/sourceperl/mbservctl/pkg/ui/timer"
)

// ConfigFileName is the base name of the configuration file looked up in the
// working directory.
const ConfigFileName = "mbservctl"

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "MBSERVCTL"

// Configuration keys bound to flags and environment variables.
const (
	KeyName       = "metadata.name"
	KeyProjectDir = "spec.project.dir"
	KeyConfSource = "spec.supervisor.confSource"
	KeyConfDir    = "spec.supervisor.confDir"
	KeyTimeout    = "spec.timeout"
)

// ConfigManager implements configuration management for mbservctl
// v1alpha1.Service configurations.
type ConfigManager struct {
	// Viper is the underlying viper instance, exposed for flag binding.
	Viper *viper.Viper
	// Config is the loaded service configuration.
	Config *v1alpha1.Service
	// Writer receives load notifications.
	Writer io.Writer

	configLoaded    bool
	configFileFound bool
}

// NewConfigManager creates a configuration manager with viper fully
// initialized: config paths, environment handling, and defaults.
func NewConfigManager(writer io.Writer) *ConfigManager {
	viperInstance := initializeViper()

	return &ConfigManager{
		Viper:  viperInstance,
		Config: v1alpha1.NewService(),
		Writer: writer,
	}
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided
// cobra command: it registers the service override flags and writes
// notifications to the command's standard output.
func NewCommandConfigManager(cmd *cobra.Command) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout())
	manager.AddFlags(cmd)

	return manager
}

// AddFlags registers the recognized override flags and binds them to
// configuration keys.
func (m *ConfigManager) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", v1alpha1.DefaultProgramName, "Supervisor program name")
	cmd.Flags().String("project-dir", v1alpha1.DefaultProjectDir,
		"Project root containing the package descriptor")
	cmd.Flags().String("conf-source", v1alpha1.DefaultConfSource,
		"Supervisor program stanza to deploy, relative to the project dir")
	cmd.Flags().String("conf-dir", v1alpha1.DefaultConfDir,
		"Supervisor configuration drop-in directory")
	cmd.Flags().Duration("timeout", v1alpha1.DefaultStepTimeout, "Per-step timeout")

	m.bindFlag(cmd.Flags(), KeyName, "name")
	m.bindFlag(cmd.Flags(), KeyProjectDir, "project-dir")
	m.bindFlag(cmd.Flags(), KeyConfSource, "conf-source")
	m.bindFlag(cmd.Flags(), KeyConfDir, "conf-dir")
	m.bindFlag(cmd.Flags(), KeyTimeout, "timeout")
}

// bindFlag binds one registered flag to a configuration key. Binding can only
// fail for flags that were never registered, so the error is ignored.
func (m *ConfigManager) bindFlag(flags *pflag.FlagSet, key, name string) {
	_ = m.Viper.BindPFlag(key, flags.Lookup(name))
}

// LoadConfig loads the configuration from files and environment variables.
// Returns the loaded config, either freshly loaded or previously cached.
// If a timer is provided, timing information is included in the success
// notification.
func (m *ConfigManager) LoadConfig(tmr timer.Timer) (*v1alpha1.Service, error) {
	return m.loadConfigWithOptions(tmr, false)
}

// LoadConfigSilent loads the configuration without emitting notifications.
func (m *ConfigManager) LoadConfigSilent() (*v1alpha1.Service, error) {
	return m.loadConfigWithOptions(nil, true)
}

func (m *ConfigManager) loadConfigWithOptions(
	tmr timer.Timer,
	silent bool,
) (*v1alpha1.Service, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	} else {
		m.configFileFound = true
	}

	config := v1alpha1.NewService()

	err = m.Viper.Unmarshal(config, viper.DecodeHook(decodeHooks()))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	m.Config = config
	m.configLoaded = true

	if !silent {
		m.notifyLoaded(tmr)
	}

	return m.Config, nil
}

func (m *ConfigManager) notifyLoaded(tmr timer.Timer) {
	source := "defaults"
	if m.configFileFound {
		source = m.Viper.ConfigFileUsed()
	}

	if tmr != nil {
		notify.SuccessWithTimerf(m.Writer, tmr, "configuration loaded from %s", source)

		return
	}

	notify.Successf(m.Writer, "configuration loaded from %s", source)
}

// initializeViper creates a viper instance with config paths, environment
// handling, and defaults applied.
func initializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(ConfigFileName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	applyDefaults(viperInstance)

	return viperInstance
}

// applyDefaults seeds viper with the v1alpha1.Service defaults so that file,
// environment, and flag overrides merge on top of them.
func applyDefaults(viperInstance *viper.Viper) {
	defaults := v1alpha1.NewService()

	viperInstance.SetDefault("kind", defaults.Kind)
	viperInstance.SetDefault("apiVersion", defaults.APIVersion)
	viperInstance.SetDefault(KeyName, defaults.Metadata.Name)
	viperInstance.SetDefault(KeyProjectDir, defaults.Spec.Project.Dir)
	viperInstance.SetDefault("spec.project.descriptor", defaults.Spec.Project.Descriptor)
	viperInstance.SetDefault("spec.project.installer", defaults.Spec.Project.Installer)
	viperInstance.SetDefault("spec.supervisor.package", defaults.Spec.Supervisor.Package)
	viperInstance.SetDefault("spec.supervisor.packageManager", defaults.Spec.Supervisor.PackageManager)
	viperInstance.SetDefault(KeyConfSource, defaults.Spec.Supervisor.ConfSource)
	viperInstance.SetDefault(KeyConfDir, defaults.Spec.Supervisor.ConfDir)
	viperInstance.SetDefault("spec.supervisor.controlCommand", defaults.Spec.Supervisor.ControlCommand)
	viperInstance.SetDefault("spec.elevation.command", defaults.Spec.Elevation.Command)
	viperInstance.SetDefault(KeyTimeout, defaults.Spec.Timeout)
}

// decodeHooks returns the mapstructure hooks used when unmarshalling the
// configuration (duration strings and comma-separated argv lists).
func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
