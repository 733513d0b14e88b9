// Package aleph is a client library for the Ex Libris Aleph integrated
// library system.
//
// It exposes three independent access protocols behind one facade:
//   - OAI-PMH metadata harvesting (GetRecord, resumable multi-set ListRecords)
//   - the Aleph X-Server search API (two-phase find/present pagination)
//   - Z39.50 catalog search through an injected native connection
//
// Harvesting and search are lazy: ListRecords and FindSystemNumbers return
// iterators that hold at most one protocol page in memory and suspend after
// every yielded element, so a consumer can stop early without buffering the
// rest of a page. Per-record parse failures are yielded as Failed results
// and never abort a harvest; structural protocol violations terminate the
// sequence with an error after the records already produced.
//
// Basic usage:
//
//	client, err := aleph.NewClient(cfg, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for res, err := range client.OAI.ListRecords(ctx, from, until) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(res.SystemNumber, res.Status)
//	}
package aleph
