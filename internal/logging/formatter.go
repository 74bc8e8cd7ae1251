package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/snipgif/internal/term"
)

const (
	// componentField names the subsystem a line came from.
	componentField = "component"
	// successField marks Info entries rendered as [SUCCESS].
	successField = "success"
)

// TextFormatter renders entries as
//
//	2006-01-02 15:04:05 [LEVEL] [component] message key=value ...
//
// with the level (and component) colored when Color is set. Extra fields are
// sorted by key so lines are stable.
type TextFormatter struct {
	Color            bool
	DisableTimestamp bool
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}

	label, color := levelLabel(entry)
	if f.Color {
		b.WriteString(color + "[" + label + "]" + term.NC)
	} else {
		b.WriteString("[" + label + "]")
	}

	if component, ok := entry.Data[componentField]; ok {
		if f.Color {
			fmt.Fprintf(&b, " %s[%v]%s", term.Magenta, component, term.NC)
		} else {
			fmt.Fprintf(&b, " [%v]", component)
		}
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != componentField && k != successField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func levelLabel(entry *logrus.Entry) (string, string) {
	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "ERROR", term.Red
	case logrus.WarnLevel:
		return "WARN", term.Yellow
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG", term.Cyan
	}
	if ok, _ := entry.Data[successField].(bool); ok {
		return "SUCCESS", term.Green
	}
	return "INFO", term.Blue
}
