package cmd

import "testing"

func TestStatsWorkbook(t *testing.T) {
	if got := statsWorkbook([]string{"out/S1.vcf_summary.txt"}); got != "out/S1.vcf_summary.xlsx" {
		t.Errorf("statsWorkbook() = %q", got)
	}
	if got := statsWorkbook([]string{"S1.txt", "S2.txt"}); got != "vcf_stats_summary.xlsx" {
		t.Errorf("statsWorkbook() of two reports = %q", got)
	}
}
