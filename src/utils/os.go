package utils

import (
	"bufio"
	"io"
	"os"
	"strings"
)

func ReadLineFromStdin(output *string) error {
	return ReadLine(os.Stdin, output)
}

func ReadLine(in io.Reader, output *string) error {
	reader := bufio.NewReader(in)
	o, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && o != "") {
		*output = ""
		return err
	}

	o = strings.TrimRight(o, "\r\n")
	*output = o
	return nil
}
