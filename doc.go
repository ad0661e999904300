// Package pricesearch provides an embeddable Go client for the price-comparison
// product search engine.
//
// A Client ranks free-text queries against per-category brand/model catalogs. The
// catalogs live in Redis or Valkey, or are supplied in memory as JSON documents.
//
//	client, _ := pricesearch.New(ctx,
//	    pricesearch.WithRedis("localhost:6379", ""),
//	    pricesearch.WithResultCache(time.Hour),
//	)
//	defer client.Close()
//
//	res, _ := client.Resolve(ctx, "phones", "galaxy s22 ultra")
//	switch res.Kind {
//	case pricesearch.KindModel:
//	    // open the comparison page of res.Brand / res.Model
//	case pricesearch.KindBrand:
//	    // list the models of res.Brand
//	default:
//	    // show res.Result.Models for disambiguation
//	}
//
// Without a database, catalogs can be loaded from JSON:
//
//	client, _ := pricesearch.New(ctx, pricesearch.WithStaticCatalog("phones", doc))
package pricesearch
