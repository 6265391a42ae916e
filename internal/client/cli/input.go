package cli

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"golang.org/x/term"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var (
	ErrUnknownDate = errors.New("could not understand date")
	ErrNotAnImage  = errors.New("file is not an image")
)

var (
	dateParser = newDateParser()
	isoLike    = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
)

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// GetSimpleText prints a prompt to w and reads one trimmed line. A final
// line without newline is accepted at EOF.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetSecret reads a value from the terminal without echo, for pasted
// tokens.
func GetSecret(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Confirm asks a yes/no question; empty input picks def.
func Confirm(reader *bufio.Reader, prompt string, def bool, w io.Writer) bool {
	hint := " [y/N]"
	if def {
		hint = " [Y/n]"
	}
	ans, err := GetSimpleText(reader, prompt+hint, w)
	if err != nil || ans == "" {
		return def
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}

// ParseDate accepts YYYY-MM-DD or natural phrases such as "today" or
// "yesterday", resolved against now. Empty input means today.
func ParseDate(text string, now time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return now.Format(models.DateLayout), nil
	}
	if models.ValidDate(text) {
		return text, nil
	}
	if isoLike.MatchString(text) {
		return "", fmt.Errorf("%w: %q", ErrUnknownDate, text)
	}
	r, err := dateParser.Parse(text, now)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrUnknownDate, text, err)
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownDate, text)
	}
	return r.Time.Format(models.DateLayout), nil
}

// ParseMonth accepts YYYY-MM; empty input means the month of now.
func ParseMonth(text string, now time.Time) (int, time.Month, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", text)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownDate, text)
	}
	return t.Year(), t.Month(), nil
}

// ParseIngredients splits a comma separated list, dropping blanks.
func ParseIngredients(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseStress reads an optional 1-5 stress level.
func ParseStress(text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > 5 {
		return nil, fmt.Errorf("stress must be 1-5, got %q", text)
	}
	return &n, nil
}

// ReadImage loads a photo from disk as a data URL.
func ReadImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
