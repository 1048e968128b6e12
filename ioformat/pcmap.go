package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WritePCMap writes one non-negative decimal integer per line, giving
// PC_B for each successive PC_R = 0, 1, 2, ..., n-1, per spec §6. n is
// the number of RV32EM instructions translated (the translator's PCMap
// also carries a one-past-the-end entry, which is not written here
// since the file format is only defined over translated instructions).
func WritePCMap(w io.Writer, pcMap map[int]int, n int) error {
	for pcR := 0; pcR < n; pcR++ {
		pcB, ok := pcMap[pcR]
		if !ok {
			return fmt.Errorf("ioformat: pc-map missing entry for PC_R=%d", pcR)
		}
		if _, err := fmt.Fprintln(w, pcB); err != nil {
			return err
		}
	}
	return nil
}

// ReadPCMap reads a PC-map file back into a PC_R -> PC_B map, assigning
// PC_R = 0, 1, 2, ... to successive non-blank lines.
func ReadPCMap(r io.Reader) (map[int]int, error) {
	out := make(map[int]int)
	scanner := bufio.NewScanner(r)
	pcR := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		pcB, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("ioformat: pc-map line %d: %w", pcR+1, err)
		}
		out[pcR] = pcB
		pcR++
	}
	return out, scanner.Err()
}
