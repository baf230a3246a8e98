package main

import (
	"bufio"
	"flag"
	"log"
	"net"
	"os"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/request"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "address to listen on")
	flag.Parse()

	lsnr, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("could not listen: %s", err)
	}
	defer lsnr.Close()

	conn, err := lsnr.Accept()
	if err != nil {
		log.Fatalf("could not accept: %s", err)
	}
	defer conn.Close()

	req, err := request.RequestFromReader(bufio.NewReader(conn))
	if err != nil {
		log.Fatalf("could not read request: %s", err)
	}

	request.PrintRequest(os.Stdout, req)
}
