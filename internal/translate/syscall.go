package translate

// syscallNumbers maps RV64 Linux syscall numbers to their AArch64 Linux
// equivalents. Both ABIs draw from the asm-generic syscall namespace, so
// every entry currently maps to itself; the table exists so that a pair that
// diverges is a data fix, not a code change. Numbers missing here pass
// through unchanged, since a7 is not always holding a syscall number at the
// point it is loaded.
var syscallNumbers = map[int32]int32{
	17:  17,  // getcwd
	56:  56,  // openat
	57:  57,  // close
	62:  62,  // lseek
	63:  63,  // read
	64:  64,  // write
	80:  80,  // fstat
	93:  93,  // exit
	94:  94,  // exit_group
	129: 129, // kill
	160: 160, // uname
	169: 169, // gettimeofday
	172: 172, // getpid
	214: 214, // brk
	215: 215, // munmap
	222: 222, // mmap
}

// mapSyscallNumber translates a RV64 Linux syscall number to the AArch64
// one. It reports false when the number is not in the table.
func mapSyscallNumber(num int32) (int32, bool) {
	mapped, ok := syscallNumbers[num]
	if !ok {
		return num, false
	}
	return mapped, true
}
