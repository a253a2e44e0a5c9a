package comm

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var settings = &struct {
	noProgress bool
	quiet      bool
	verbose    bool
	json       bool
	panic      bool
}{}

// Configure sets all logging options in one go
func Configure(noProgress, quiet, verbose, json, panic bool) {
	settings.noProgress = noProgress
	settings.quiet = quiet
	settings.verbose = verbose
	settings.json = json
	settings.panic = panic
}

// JsonMessage is one line of output in JSON mode
type JsonMessage map[string]interface{}

// JsonEnabled returns true if we're printing JSON lines
func JsonEnabled() bool {
	return settings.json
}

// Opf prints a formatted string informing the user on what operation we're doing
func Opf(format string, args ...interface{}) {
	Logf("%s %s", theme.OpSign, fmt.Sprintf(format, args...))
}

// Statf prints a formatted string informing the user how the operation went
func Statf(format string, args ...interface{}) {
	Logf("%s %s", theme.StatSign, fmt.Sprintf(format, args...))
}

// Log sends an informational message to the client
func Log(msg string) {
	Logl("info", msg)
}

// Logf sends a formatted informational message to the client
func Logf(format string, args ...interface{}) {
	Loglf("info", format, args...)
}

// Notice prints a box with important info in it.
// Don't abuse it or people will stop reading it.
func Notice(header string, lines []string) {
	if settings.json {
		Logf("notice: %s", header)
		for _, line := range lines {
			Logf("notice: %s", line)
		}
		return
	}

	if settings.quiet {
		return
	}

	PauseProgress()
	defer ResumeProgress()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetColWidth(60)
	table.SetHeader([]string{header})
	for _, line := range lines {
		table.Append([]string{line})
	}
	table.Render()
}

// Warn lets the user know about a problem that's non-critical
func Warn(msg string) {
	Logl("warning", msg)
}

// Warnf is a formatted variant of Warn
func Warnf(format string, args ...interface{}) {
	Loglf("warning", format, args...)
}

// Debug messages are like Info messages, but printed only when verbose
func Debug(msg string) {
	Logl("debug", msg)
}

// Debugf is a formatted variant of Debug
func Debugf(format string, args ...interface{}) {
	Loglf("debug", format, args...)
}

// Logl logs a message of a given level
func Logl(level string, msg string) {
	send("log", JsonMessage{
		"message": msg,
		"level":   level,
	})
}

// Loglf logs a formatted message of a given level
func Loglf(level string, format string, args ...interface{}) {
	Logl(level, fmt.Sprintf(format, args...))
}

// Die exits with a non-zero exit code after giving a reason to the client
func Die(msg string) {
	send("error", JsonMessage{
		"message": msg,
	})
}

// Dief is a formatted variant of Die
func Dief(format string, args ...interface{}) {
	Die(fmt.Sprintf(format, args...))
}

// Result sends a result, only visible in JSON mode
func Result(value interface{}) {
	send("result", JsonMessage{
		"value": value,
	})
}

type printerFunc func()

// ResultOrPrint sends value in JSON mode, and calls p otherwise
func ResultOrPrint(value interface{}, p printerFunc) {
	if settings.json {
		Result(value)
	} else {
		p()
	}
}

var warningColor = color.New(color.FgYellow).SprintFunc()
var errorColor = color.New(color.FgRed, color.Bold).SprintFunc()

// sends a message to the client
func send(msgType string, obj JsonMessage) {
	if settings.json {
		if msgType == "log" && obj["level"] == "debug" && (settings.quiet || !settings.verbose) {
			return
		}

		obj["type"] = msgType
		obj["time"] = timeNow().UTC().Unix()
		sendJSON(obj)
		if msgType == "error" {
			exit(1)
		}
		return
	}

	switch msgType {
	case "log":
		switch obj["level"] {
		case "info":
			if !settings.quiet {
				log.Println(obj["message"])
			}
		case "debug":
			if !settings.quiet && settings.verbose {
				log.Println(obj["message"])
			}
		case "warning":
			log.Printf("%s %s\n", warningColor("warning:"), obj["message"])
		default:
			log.Printf("%s %s\n", errorColor(fmt.Sprintf("%s:", obj["level"])), obj["message"])
		}
	case "error":
		EndProgress()
		if settings.panic {
			log.Panicln(obj["message"])
		}
		log.Println(errorColor(obj["message"]))
		exit(1)
	case "result", "progress":
		// not shown outside json mode
	default:
		log.Println(msgType, obj)
	}
}

// sends a JSON-encoded message to the client
func sendJSON(obj JsonMessage) {
	payload, err := json.Marshal(obj)
	if err != nil {
		payload, _ = json.Marshal(JsonMessage{
			"type":    "log",
			"level":   "error",
			"message": fmt.Sprintf("could not encode %s message: %s", obj["type"], err.Error()),
		})
	}
	fmt.Fprintln(os.Stdout, string(payload))
}
