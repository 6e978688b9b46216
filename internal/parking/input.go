package parking

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// InputReader is how the workflows ask the operator for data.
type InputReader interface {
	ReadSelection() (int, error)
	ReadRegistrationNumber() (string, error)
}

var ErrEmptyRegistration = errors.New("registration number is empty")

// ConsoleReader prompts on out and reads answers line by line. The shell
// passes its own scanner so buffered input is not split between readers.
type ConsoleReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewConsoleReader(scanner *bufio.Scanner, out io.Writer) *ConsoleReader {
	if out == nil {
		out = io.Discard
	}
	return &ConsoleReader{scanner: scanner, out: out}
}

func (r *ConsoleReader) readLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.scanner.Text()), nil
}

// ReadSelection returns -1 with a nil error when the line is not a number,
// which callers treat as an unrecognized choice.
func (r *ConsoleReader) ReadSelection() (int, error) {
	fmt.Fprintln(r.out, "Please select vehicle type from menu")
	fmt.Fprintf(r.out, "%d CAR\n", SelectionCar)
	fmt.Fprintf(r.out, "%d BIKE\n", SelectionBike)

	line, err := r.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func (r *ConsoleReader) ReadRegistrationNumber() (string, error) {
	fmt.Fprintln(r.out, "Please type the vehicle registration number and press enter key")

	line, err := r.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", fmt.Errorf("read registration number: %w", ErrEmptyRegistration)
	}
	return line, nil
}
