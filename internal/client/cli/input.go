package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// readLine reads one line and trims it. If EOF occurs after some input was
// read, the partial line is returned.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo.
func GetPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// mealTimeLayouts are tried in order; the short form is read in local time.
var mealTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04"}

// GetDateTime reads a meal date. An empty answer yields def.
func GetDateTime(reader *bufio.Reader, prompt string, def time.Time, w io.Writer) (time.Time, error) {
	ans, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return time.Time{}, err
	}
	if ans == "" {
		return def, nil
	}
	for _, layout := range mealTimeLayouts {
		if t, err := time.ParseInLocation(layout, ans, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use yyyy-mm-dd hh:mm or RFC3339", ans)
}

// GetYesNo asks a y/n question. An empty answer yields def.
func GetYesNo(reader *bufio.Reader, prompt string, def bool, w io.Writer) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		ans, err := GetSimpleText(reader, prompt+" "+hint, w)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(ans) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(w, "Please answer y or n.")
	}
}
