package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FixtureVCD is a small dump exercising enums, duplicate names, aliases and
// x values. Signals (all under TOP):
//
//	clk                  0 @0, 1 @10, 0 @20, 1 @30
//	cpu.rax_op [1:0]     00 @0, 01 @10, 10 @20, xx @30
//	cpu.state [1:0]      00 @0, 01 @10, 11 @20   (first declaration)
//	cpu.count            0 @0, 5 @10, 1x @20
//	cpu.state [1:0]      11 @0                   (second declaration)
//	cpu.temp             real 0.5 @0
//	cpu.clk_alias        alias of clk
const FixtureVCD = `$date
	Mon Oct 19 12:00:00 2026
$end
$version
	wavequery fixture 1.0
$end
$timescale
	1ns
$end
$timezero 5 $end
$scope module TOP $end
$attrbegin misc 07 control::reg_op_e 3 NONE READ WRITE 00 01 10 1 $end
$attrend $end
$var wire 1 ! clk $end
$scope module cpu $end
$attrbegin misc 07 state_e 3 IDLE RUN HALT 00 01 10 2 $end
$attrend $end
$attrbegin misc 07 broken many A B 0 1 3 $end
$attrend $end
$attrbegin misc 00 source fixture.sv 0 $end
$attrend $end
$var reg 2 " rax_op [1:0] $end
$var reg 2 # state [1:0] $end
$var integer 32 $ count $end
$var reg 2 % state [1:0] $end
$var real 64 & temp $end
$var wire 1 ! clk_alias $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
0!
b00 "
b0 #
b0 $
b11 %
r0.5 &
$end
#10
1!
b1 "
b01 #
b101 $
#20
0!
b10 "
b11 #
b1x $
#30
1!
bx "
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteFixture writes FixtureVCD into a fresh temp dir and returns its path.
func WriteFixture(t testing.TB) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "fixture.vcd", FixtureVCD)
}
