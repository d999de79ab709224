// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"carlos/internal/lsp"
)

const lsName = "carlos"

var (
	version = "0.1.0"
	handler protocol.Handler
)

func main() {
	verbosity := flag.Int("verbosity", 1, "logging verbosity: -4=none, 0=notice, 1=info, 2=debug")
	logFile := flag.String("log", "", "log to this file instead of stderr")
	debug := flag.Bool("debug", false, "log every LSP message")
	flag.Parse()

	var path *string
	if *logFile != "" {
		path = logFile
	}
	commonlog.Configure(*verbosity, path)
	log := commonlog.GetLogger("carlos.lsp")

	carlosHandler := lsp.NewCarlosHandler()

	handler = protocol.Handler{
		Initialize:                     carlosHandler.Initialize,
		Initialized:                    carlosHandler.Initialized,
		Shutdown:                       carlosHandler.Shutdown,
		SetTrace:                       carlosHandler.SetTrace,
		TextDocumentDidOpen:            carlosHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           carlosHandler.TextDocumentDidClose,
		TextDocumentDidChange:          carlosHandler.TextDocumentDidChange,
		TextDocumentCompletion:         carlosHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: carlosHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, *debug)

	log.Noticef("starting %s language server %s", lsName, version)

	// Editors talk to the server over stdin and stdout.
	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		os.Exit(1)
	}
}
