package version

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Name - имя бинарника в логах и /version
const Name = "cavern-combat"

// Заполняются через -ldflags "-X cavern-combat/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число суток от этой даты
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// VersionInfo - сведения о сборке для /version и стартового лога.
type VersionInfo struct {
	Name       string `json:"name"`
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Modified   bool   `json:"modified,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	GoVersion  string `json:"goVersion"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// BuildNumber считает номер сборки по дате.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, errors.New("build date is not set")
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return 0, fmt.Errorf("parse build date %q: %w", date, err)
	}

	days := int(t.Sub(buildEpoch) / (24 * time.Hour))
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s precedes %s", date, buildEpoch.Format(time.DateOnly))
	}
	return days, nil
}

// Info собирает сведения о сборке. Если коммит не передан через ldflags,
// берется ревизия, которую go build записал в бинарник.
func Info() VersionInfo {
	info := VersionInfo{
		Name:      Name,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyVCS(&info, bi.Settings)
	}

	if id, err := BuildNumber(BuildDate); err != nil {
		info.Error = err.Error()
	} else {
		info.BuildID = id
		info.Calculated = true
	}
	return info
}

func applyVCS(info *VersionInfo, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String - однострочное описание сборки, пустые поля пропускаются.
func (v VersionInfo) String() string {
	var sb strings.Builder
	if v.Calculated {
		fmt.Fprintf(&sb, "%s build %d (%s)", v.Name, v.BuildID, v.BuildDate)
	} else {
		fmt.Fprintf(&sb, "%s dev build", v.Name)
	}

	if v.Commit != "" {
		sb.WriteString(" commit " + v.Commit)
		if v.Modified {
			sb.WriteString("-dirty")
		}
	}
	if v.Branch != "" {
		sb.WriteString(" branch " + v.Branch)
	}
	if v.CI != "" {
		sb.WriteString(" ci " + v.CI)
	}
	if v.GoVersion != "" {
		sb.WriteString(", " + v.GoVersion)
	}
	return sb.String()
}

// String описывает текущий бинарник.
func String() string {
	return Info().String()
}
