package core

import (
	"os"
	"path/filepath"
	"runtime"

	"lark_reader/model"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// LoadConfig 加载应用凭据
// path 非空时只读指定文件；否则依次尝试工作目录与可执行文件目录下的
// 默认路径，最后回退到环境变量
func LoadConfig(path string, log *zap.SugaredLogger) (*model.Config, error) {
	candidates := []string{path}
	if path == "" {
		candidates = []string{model.ConfigPath}
		if exe, err := os.Executable(); err == nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(exe), model.ConfigPath))
		}
	}

	for _, candidate := range candidates {
		cfg, err := readConfigFile(candidate, log)
		if err != nil {
			log.Debugf("加载配置文件 %s 失败: %v", candidate, err)
			continue
		}
		if cfg != nil {
			return cfg, nil
		}
	}

	// 环境变量兜底
	appID := os.Getenv(model.EnvAppID)
	appSecret := os.Getenv(model.EnvAppSecret)
	if appID != "" && appSecret != "" {
		return &model.Config{AppID: appID, AppSecret: appSecret}, nil
	}

	return nil, ErrConfigMissing
}

func readConfigFile(path string, log *zap.SugaredLogger) (*model.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// 凭据文件不应对组和其他用户可读
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		log.Warnf("配置文件 %s 权限过宽 (%v)，建议收紧为 0600", path, info.Mode().Perm())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &model.Config{}
	if err = jsoniter.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, nil
	}
	return cfg, nil
}
