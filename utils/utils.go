package utils

import (
	"bufio"
	"os"
	"strings"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

// HashStrings hashes the concatenation of ss with a separator between parts.
func HashStrings(ss ...string) uint64 {
	hash := murmur3.New64()
	for i, s := range ss {
		if i > 0 {
			_, _ = hash.Write([]byte{0})
		}
		_, err := hash.Write([]byte(s))
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

func AbsInt(n int) int {
	if n >= 0 {
		return n
	}

	return -n
}

// ReadSet reads one entry per line. Blank lines and '#' comments are skipped.
func ReadSet(filePath string) (map[string]bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	result := make(map[string]bool)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result[line] = true
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
