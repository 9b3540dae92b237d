//go:build unix

package redirect

import "syscall"

// fcntlGetFD/fcntlSetFD/fcntlGetFL wrap the three fcntl(2) calls the
// redirection applier needs (F_GETFD/F_SETFD to mark saved descriptors
// close-on-exec, F_GETFL to inspect a dup target's access mode). The
// syscall package doesn't expose fcntl directly, so these go straight
// through syscall.Syscall the way the POSIX original calls fcntl(2).
func fcntlGetFD(fd int) (int, error) {
	return fcntl(fd, syscall.F_GETFD, 0)
}

func fcntlSetFD(fd int, flags int) error {
	_, err := fcntl(fd, syscall.F_SETFD, flags)
	return err
}

func fcntlGetFL(fd int) (int, error) {
	return fcntl(fd, syscall.F_GETFL, 0)
}

func fcntl(fd int, cmd int, arg int) (int, error) {
	r, _, errno := syscall.Syscall(syscall.SYS_FCNTL, uintptr(fd), uintptr(cmd), uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return int(r), nil
}
