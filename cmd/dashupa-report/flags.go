package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smspocoredondo/DashUPA/internal/filter"
)

// buildFilter 把命令行参数转换为 filter.Filter
// --filter priority=AMARELO --filter priority=VERMELHO 同列多值为 OR
func buildFilter(pairs []string, from, to, hours string) (filter.Filter, error) {
	f := filter.Filter{DateFrom: from, DateTo: to}
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return f, fmt.Errorf("invalid --filter %q, want column=value", p)
		}
		if f.Values == nil {
			f.Values = make(map[string][]string)
		}
		f.Values[col] = append(f.Values[col], strings.TrimSpace(val))
	}
	if hours != "" {
		start, end, ok := strings.Cut(hours, "-")
		if !ok {
			return f, fmt.Errorf("invalid --hours %q, want from-to", hours)
		}
		hf, err1 := strconv.Atoi(strings.TrimSpace(start))
		ht, err2 := strconv.Atoi(strings.TrimSpace(end))
		if err1 != nil || err2 != nil {
			return f, fmt.Errorf("invalid --hours %q, want from-to", hours)
		}
		f.HourFrom, f.HourTo = &hf, &ht
	}
	// 列名和范围在这里就校验，避免读完文件才报错
	if _, err := f.Compile(); err != nil {
		return f, err
	}
	return f, nil
}
