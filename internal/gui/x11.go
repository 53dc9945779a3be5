package gui

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// RootPointer reads the pointer position from the X11 root window. Desktop
// background windows never receive motion events of their own.
type RootPointer struct {
	conn *xgb.Conn
	root xproto.Window
}

func OpenRootPointer() (*RootPointer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	setup := xproto.Setup(conn)
	return &RootPointer{conn: conn, root: setup.DefaultScreen(conn).Root}, nil
}

// Position returns the pointer in root window coordinates.
func (p *RootPointer) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(p.conn, p.root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (p *RootPointer) Close() {
	p.conn.Close()
}
