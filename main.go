package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/deemkeen/stegodon/app"
	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/util"
)

func main() {
	versionFlag := flag.Bool("v", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("stegodon v%s\n", util.GetVersion())
		os.Exit(0)
	}

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalln(err)
	}

	util.SetupLogging(conf.Conf.WithJournald)

	log.Printf("stegodon v%s", util.GetVersion())
	log.Println("configuration:")
	log.Println(util.PrettyPrint(conf))

	if conf.Conf.WithPprof {
		go func() {
			log.Println("pprof server listening on localhost:6060")
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				log.Printf("pprof server error: %v", err)
			}
		}()
	}

	if _, err := db.Init(util.ResolveFilePath("database.db")); err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	application, err := app.New(conf)
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if err := application.Initialize(); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
