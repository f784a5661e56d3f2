// Package eelog parses and monitors Warframe EE.log files.
//
// This package allows you to:
//   - Parse a whole log into a snapshot of combat events and damage warnings
//   - Re-parse automatically when the game appends to the log
//   - Stream new events line by line as they are written
//   - Filter and sort the results with the [view] subpackage
//
// # Basic Usage
//
// To parse a log once:
//
//	path, err := eelog.LocateLog("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	snap, err := eelog.ParseFile(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ev := range snap.Combat {
//	    fmt.Println(ev.Message)
//	}
//
// To keep a snapshot current while the game runs:
//
//	loader, _ := eelog.NewLoader(path)
//	w, _ := eelog.NewWatcher(loader, eelog.WithPollInterval(2*time.Second))
//	defer w.Close()
//
//	snaps, errs, err := w.Watch(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    select {
//	    case snap, ok := <-snaps:
//	        if !ok {
//	            return
//	        }
//	        fmt.Printf("%d combat events\n", len(snap.Combat))
//	    case err, ok := <-errs:
//	        if !ok {
//	            return
//	        }
//	        log.Printf("error: %v", err)
//	    }
//	}
//
// A snapshot is always derived from the whole file. A refresh that cannot
// read the file (the game may hold it locked) keeps the previous snapshot
// and retries on the next tick.
//
// # Time Base
//
// Log lines carry seconds since game start. The first
// "Sys [Diag]: Current time: ... [UTC: ...]" line fixes the wall-clock start;
// without one, the file modification time is used. Display times are
// rendered in local time unless [WithUTC] is set.
//
// # Platform Support
//
// The default log location is %LOCALAPPDATA%\Warframe\EE.log. Other
// platforms must pass an explicit path or set EELOG_PATH.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with Digital Extremes.
package eelog
